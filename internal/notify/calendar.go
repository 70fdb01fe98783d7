package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/studiobook/studio-booking/internal/booking"
)

// CalendarClient creates events on a Google calendar for confirmed
// bookings, using the same OAuth refresh-token flow as the mailer.
type CalendarClient struct {
	calendarID string
	client     *http.Client
}

func NewCalendarClient(ctx context.Context, clientID, clientSecret, refreshToken, calendarID string) *CalendarClient {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: googleTokenURL},
		Scopes:       []string{"https://www.googleapis.com/auth/calendar.events"},
	}
	token := &oauth2.Token{RefreshToken: refreshToken}

	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))
	client.Timeout = 20 * time.Second

	return &CalendarClient{calendarID: calendarID, client: client}
}

type calendarTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type calendarAttendee struct {
	Email string `json:"email"`
}

type calendarEventBody struct {
	Summary     string             `json:"summary"`
	Description string             `json:"description,omitempty"`
	Start       calendarTime       `json:"start"`
	End         calendarTime       `json:"end"`
	Attendees   []calendarAttendee `json:"attendees,omitempty"`
}

func (c *CalendarClient) CreateEvent(ctx context.Context, ev booking.CalendarEvent) error {
	loc := time.Local
	start := time.Date(ev.Date.Year(), ev.Date.Month(), ev.Date.Day(),
		int(ev.Start)/60, int(ev.Start)%60, 0, 0, loc)
	end := time.Date(ev.Date.Year(), ev.Date.Month(), ev.Date.Day(),
		int(ev.End)/60, int(ev.End)%60, 0, 0, loc)
	// A slot ending at 00:00 runs to midnight of the next day.
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	body := calendarEventBody{
		Summary:     fmt.Sprintf("Studio session: %s x %s", ev.ArtistName, ev.ProducerName),
		Description: ev.Description,
		Start:       calendarTime{DateTime: start.Format(time.RFC3339), TimeZone: loc.String()},
		End:         calendarTime{DateTime: end.Format(time.RFC3339), TimeZone: loc.String()},
		Attendees: []calendarAttendee{
			{Email: ev.ArtistEmail},
			{Email: ev.ProducerEmail},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	endpoint := fmt.Sprintf("https://www.googleapis.com/calendar/v3/calendars/%s/events",
		url.PathEscape(c.calendarID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("calendar api: %s: %s", resp.Status, body)
	}
	return nil
}
