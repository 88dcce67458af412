// Package temporal resolves free-text date and time-of-day expressions
// against a reference instant.
package temporal

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognized reports that the text did not contain a date or time
// expression the rule set understands.
var ErrUnrecognized = errors.New("unrecognized temporal expression")

// DateOptions direct a date resolution.
type DateOptions struct {
	// Reference anchors relative expressions ("next monday").
	Reference time.Time
	// PreferFuture restricts the rule set to forward-resolving rules.
	// Explicit calendar dates ("June 1st") are still returned as parsed,
	// even when they fall before the reference; pastness is the caller's
	// validation concern.
	PreferFuture bool
}

// Resolver converts natural-language expressions into absolute dates and
// times of day.
type Resolver interface {
	ResolveDate(text string, opts DateOptions) (time.Time, error)
	ResolveTime(text string, ref time.Time) (time.Time, error)
}

// WhenResolver backs Resolver with olebedev/when English rules.
type WhenResolver struct {
	futureDates *when.Parser
	anyDates    *when.Parser
	times       *when.Parser
}

// NewResolver builds the rule sets once; the parsers are safe for
// concurrent use.
func NewResolver() *WhenResolver {
	futureDates := when.New(nil)
	futureDates.Add(
		en.CasualDate(rules.Override),
		en.Weekday(rules.Override),
		en.ExactMonthDate(rules.Override),
		common.SlashDMY(rules.Override),
	)

	anyDates := when.New(nil)
	anyDates.Add(
		en.CasualDate(rules.Override),
		en.Weekday(rules.Override),
		en.ExactMonthDate(rules.Override),
		en.PastTime(rules.Override),
		common.SlashDMY(rules.Override),
	)

	times := when.New(nil)
	times.Add(
		en.Hour(rules.Override),
		en.HourMinute(rules.Override),
		en.CasualTime(rules.Override),
	)

	return &WhenResolver{
		futureDates: futureDates,
		anyDates:    anyDates,
		times:       times,
	}
}

var ordinalSuffix = regexp.MustCompile(`(?i)(\d{1,2})(st|nd|rd|th)\b`)

// normalize strips ordinal suffixes ("25th" -> "25") so exact month-date
// expressions match regardless of how the user spells the day.
func normalize(text string) string {
	return ordinalSuffix.ReplaceAllString(strings.TrimSpace(text), "$1")
}

// ResolveDate parses a calendar-date expression and truncates the result
// to midnight in the reference location.
func (r *WhenResolver) ResolveDate(text string, opts DateOptions) (time.Time, error) {
	parser := r.anyDates
	if opts.PreferFuture {
		parser = r.futureDates
	}

	result, err := parser.Parse(normalize(text), opts.Reference)
	if err != nil {
		return time.Time{}, err
	}
	if result == nil {
		return time.Time{}, ErrUnrecognized
	}

	t := result.Time
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
}

// ResolveTime parses a time-of-day expression, anchored to the reference
// date. Only clock rules participate, so text without a time component
// fails rather than matching a bare date.
func (r *WhenResolver) ResolveTime(text string, ref time.Time) (time.Time, error) {
	result, err := r.times.Parse(normalize(text), ref)
	if err != nil {
		return time.Time{}, err
	}
	if result == nil {
		return time.Time{}, ErrUnrecognized
	}

	return result.Time, nil
}
