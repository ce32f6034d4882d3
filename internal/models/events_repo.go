package models

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const eventColumns = "id,title,description,host_id,host_name,image_url,category,coordinates,address," +
	"start_time,end_time,created_at,is_public,max_participants,attendees_count"

// eventRow is the shape postgrest returns for the events table. Coordinates
// come back as a PostGIS string and timestamps as text.
type eventRow struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	HostID          string  `json:"host_id"`
	HostName        string  `json:"host_name"`
	ImageURL        *string `json:"image_url"`
	Category        string  `json:"category"`
	Coordinates     *string `json:"coordinates"`
	Address         string  `json:"address"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	CreatedAt       string  `json:"created_at"`
	IsPublic        bool    `json:"is_public"`
	MaxParticipants *int    `json:"max_participants"`
	AttendeesCount  int     `json:"attendees_count"`
}

// FetchEvents reads public events from Supabase. Distance is left to the
// caller; near is accepted to satisfy EventSource.
func (su *SupabaseRepo) FetchEvents(ctx context.Context, near Coordinates) ([]Event, error) {
	data, _, err := su.supabaseClient.From(EventsTable).
		Select(eventColumns, "exact", false).
		Eq("is_public", "true").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	var rows []eventRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal events: %w", err)
	}

	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		ev, err := row.toEvent()
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", row.ID, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func (r eventRow) toEvent() (Event, error) {
	ev := Event{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		HostID:          r.HostID,
		HostName:        r.HostName,
		ImageURL:        r.ImageURL,
		Category:        r.Category,
		IsPublic:        r.IsPublic,
		MaxParticipants: r.MaxParticipants,
		AttendeesCount:  max(r.AttendeesCount, 0),
	}

	var err error
	if ev.StartTime, err = parseTimestamp(r.StartTime); err != nil {
		return Event{}, fmt.Errorf("start_time: %w", err)
	}
	if ev.EndTime, err = parseTimestamp(r.EndTime); err != nil {
		return Event{}, fmt.Errorf("end_time: %w", err)
	}
	if ev.CreatedAt, err = parseTimestamp(r.CreatedAt); err != nil {
		return Event{}, fmt.Errorf("created_at: %w", err)
	}

	if r.Coordinates != nil && *r.Coordinates != "" {
		var c Coordinates
		if err := c.Scan(*r.Coordinates); err != nil {
			return Event{}, fmt.Errorf("failed to parse coordinates: %w", err)
		}
		ev.Location = &Location{Latitude: c.Latitude, Longitude: c.Longitude, Address: r.Address}
	}
	return ev, nil
}

// parseTimestamp accepts the formats postgrest emits for timestamptz columns.
func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05.999999-07"}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
