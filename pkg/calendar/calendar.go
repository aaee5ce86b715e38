// Package calendar turns a normalized activity into ready-to-use calendar
// artifacts: a Google Calendar deep link and an ICS document. Both builders
// are pure; no network access, no state.
package calendar

import (
	"fmt"
	"net/url"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/planscope/planscope/pkg/activity"
)

// UnsupportedActivityError means the activity lacks the fields a calendar
// entry needs: a name, plus at least one of start time or location.
type UnsupportedActivityError struct {
	Reason string
}

func (e *UnsupportedActivityError) Error() string {
	return "activity cannot be placed on a calendar: " + e.Reason
}

const (
	renderEndpoint = "https://www.google.com/calendar/render"

	// defaultDuration is assumed when the provider gives no end time.
	defaultDuration = 2 * time.Hour

	// gcalTimeLayout is the basic UTC format the render endpoint expects.
	gcalTimeLayout = "20060102T150405Z"
)

func checkRequired(a activity.Activity) error {
	if a.Name == "" {
		return &UnsupportedActivityError{Reason: "missing name"}
	}
	if a.StartTime == nil && !a.Location.Coords.Valid() && a.Location.Address == "" {
		return &UnsupportedActivityError{Reason: "missing both start time and location"}
	}
	return nil
}

func locationText(a activity.Activity) string {
	if a.Location.Address != "" {
		return a.Location.Address
	}
	if a.Location.Coords.Valid() {
		return a.Location.Coords.String()
	}
	return ""
}

// BuildLink produces a Google Calendar creation deep link pre-filled with
// the activity's name, time, location and source URL.
func BuildLink(a activity.Activity) (string, error) {
	if err := checkRequired(a); err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", a.Name)
	if a.StartTime != nil {
		start := a.StartTime.UTC()
		end := start.Add(defaultDuration)
		params.Set("dates", start.Format(gcalTimeLayout)+"/"+end.Format(gcalTimeLayout))
	}
	if loc := locationText(a); loc != "" {
		params.Set("location", loc)
	}
	if a.URL != "" {
		params.Set("details", a.URL)
	}

	return renderEndpoint + "?" + params.Encode(), nil
}

// BuildICS renders the activity as a single-event ICS document, for callers
// whose calendar client prefers a file over a deep link.
func BuildICS(a activity.Activity) (string, error) {
	if err := checkRequired(a); err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//planscope//EN")

	ev := cal.AddEvent(fmt.Sprintf("%s-%s@planscope", a.Source, a.ProviderID))
	ev.SetSummary(a.Name)
	ev.SetDtStampTime(time.Now().UTC())
	if a.StartTime != nil {
		start := a.StartTime.UTC()
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(defaultDuration))
	}
	if loc := locationText(a); loc != "" {
		ev.SetLocation(loc)
	}
	if a.URL != "" {
		ev.SetURL(a.URL)
	}

	return cal.Serialize(), nil
}
