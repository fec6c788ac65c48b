package calendar

import (
	"context"
	"fmt"
	"time"

	"slotbook/models"
	"slotbook/utils"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// TokenProvider resolves the OAuth token for a connected calendar. Token
// acquisition and refresh live with the owner of the OAuth flow, outside this
// engine.
type TokenProvider func(calendarRef string) (*oauth2.Token, error)

// GoogleBusySource reads busy intervals from the Google Calendar FreeBusy API.
type GoogleBusySource struct {
	Config *oauth2.Config
	Tokens TokenProvider
}

// NewGoogleBusySource constructs a BusySource over Google Calendar.
func NewGoogleBusySource(clientID, clientSecret string, tokens TokenProvider) *GoogleBusySource {
	return &GoogleBusySource{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://accounts.google.com/o/oauth2/auth",
				TokenURL: "https://oauth2.googleapis.com/token",
			},
			Scopes: []string{gcal.CalendarReadonlyScope},
		},
		Tokens: tokens,
	}
}

func (s *GoogleBusySource) BusyIntervals(ctx context.Context, calendarRef string, from, until time.Time) ([]models.Interval, error) {
	logger := utils.GetLogger()

	token, err := s.Tokens(calendarRef)
	if err != nil {
		return nil, fmt.Errorf("no calendar token for %s: %w", calendarRef, err)
	}

	client := s.Config.Client(ctx, token)
	service, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	resp, err := service.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: from.UTC().Format(time.RFC3339),
		TimeMax: until.UTC().Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: calendarRef}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("freebusy query failed for %s: %w", calendarRef, err)
	}

	cal, ok := resp.Calendars[calendarRef]
	if !ok {
		return nil, fmt.Errorf("freebusy response missing calendar %s", calendarRef)
	}

	var busy []models.Interval
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			logger.Warn("skipping unparsable busy period start",
				zap.String("calendarRef", calendarRef), zap.String("start", period.Start))
			continue
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			logger.Warn("skipping unparsable busy period end",
				zap.String("calendarRef", calendarRef), zap.String("end", period.End))
			continue
		}
		iv, err := models.NewInterval(start, end)
		if err != nil {
			continue
		}
		busy = append(busy, iv)
	}

	logger.Debug("fetched busy intervals from Google Calendar",
		zap.String("calendarRef", calendarRef), zap.Int("count", len(busy)))
	return models.MergeIntervals(busy), nil
}
