// Copyright (c) 2026 AuthFlow. All rights reserved.

package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/Adititesting969/authflow-6448/internal/backend"
	"github.com/Adititesting969/authflow-6448/pkg/pointer"
	"github.com/Adititesting969/authflow-6448/pkg/textnorm"
)

// # Derivation Constants

const (
	// securityContribution is the weight of each security-score factor.
	securityContribution = 25

	// fewSessionsThreshold is the most active sessions still considered tidy.
	fewSessionsThreshold = 3

	// recentEventCount is how many activities the dashboard lists.
	recentEventCount = 3

	// localeDateLayout renders absolute dates on the dashboard.
	localeDateLayout = "1/2/2006"

	// memberSinceLayout renders the header's membership month.
	memberSinceLayout = "January 2006"
)

// # Pure Derivations
//
// Everything below derives presentation state from already-fetched data.
// Order of data arrival must not matter: callers fetch activities and
// sessions concurrently.

/*
BuildSecurityScore derives the account-hardening gauge.

Description: Four independent 25-point contributions. Two of them are
placeholders carried over deliberately: two-factor never scores (the
feature does not exist) and the strong-password factor always scores (the
stored password cannot be re-evaluated).

Parameters:
  - activities: The user's recent activities, any order.
  - sessions: The user's active sessions, any order.

Returns:
  - SecurityScore: Score plus the per-factor breakdown.
*/
func BuildSecurityScore(activities []backend.Activity, sessions []backend.SessionRecord) SecurityScore {
	score := SecurityScore{
		TwoFactorEnabled: false,
		StrongPassword:   true,
		HasActivity:      len(activities) > 0,
		FewSessions:      len(sessions) <= fewSessionsThreshold,
	}

	if score.TwoFactorEnabled {
		score.Score += securityContribution
	}
	if score.StrongPassword {
		score.Score += securityContribution
	}
	if score.HasActivity {
		score.Score += securityContribution
	}
	if score.FewSessions {
		score.Score += securityContribution
	}

	return score
}

/*
BuildUserStats derives the dashboard's headline numbers.

Description: Last login comes from the profile's last_login_at, falling
back to now when the column has never been written.

Parameters:
  - sessions: The user's active sessions.
  - profile: The user's profile; may be nil.
  - now: The aggregation instant.

Returns:
  - UserStats: Totals and the last-login instant.
*/
func BuildUserStats(sessions []backend.SessionRecord, profile *backend.Profile, now time.Time) UserStats {
	stats := UserStats{
		TotalSessions: len(sessions),
		LastLogin:     now,
	}

	for _, session := range sessions {
		if session.IsActive {
			stats.ActiveDevices++
		}
	}

	if profile != nil {
		stats.LastLogin = pointer.Fallback(profile.LastLoginAt, now)
	}
	stats.LastLoginDisplay = RelativeTimeCoarse(stats.LastLogin, now)

	return stats
}

/*
BuildActivityFeed maps activity rows onto the feed's payload shape.

Description: Each row carries its relative timestamp pre-rendered, so the
feed shows "5 minutes ago" without re-deriving it client-side.

Parameters:
  - activities: Newest-first activity rows.
  - now: The rendering instant.

Returns:
  - []ActivityEntry: One entry per row; never nil.
*/
func BuildActivityFeed(activities []backend.Activity, now time.Time) []ActivityEntry {
	entries := make([]ActivityEntry, 0, len(activities))

	for _, activity := range activities {
		entries = append(entries, ActivityEntry{
			ID:           activity.ID,
			ActivityType: activity.ActivityType,
			Title:        activity.Title,
			Description:  activity.Description,
			Metadata:     activity.Metadata,
			CreatedAt:    activity.CreatedAt,
			TimeAgo:      RelativeTime(activity.CreatedAt, now),
		})
	}

	return entries
}

/*
BuildRecentEvents maps the newest activities onto the dashboard list.

Description: Takes the first entries of the already-descending activity
slice; the title becomes the row description.

Parameters:
  - activities: Newest-first activity rows.

Returns:
  - []RecentEvent: At most three rows; never nil.
*/
func BuildRecentEvents(activities []backend.Activity) []RecentEvent {
	events := make([]RecentEvent, 0, recentEventCount)

	for _, activity := range activities {
		if len(events) == recentEventCount {
			break
		}
		events = append(events, RecentEvent{
			Description: activity.Title,
			Timestamp:   activity.CreatedAt.Format(localeDateLayout),
		})
	}

	return events
}

/*
BuildHeaderSnapshot derives the page-header identity block.

Parameters:
  - profile: The user's profile; may be nil.
  - email: Fallback identity when the profile is missing.

Returns:
  - HeaderSnapshot: Display name, initials, and membership month.
*/
func BuildHeaderSnapshot(profile *backend.Profile, email string) HeaderSnapshot {
	snapshot := HeaderSnapshot{Email: email}

	if profile != nil {
		snapshot.DisplayName = profile.FullName
		if profile.Email != "" {
			snapshot.Email = profile.Email
		}
		if !profile.CreatedAt.IsZero() {
			snapshot.MemberSince = profile.CreatedAt.Format(memberSinceLayout)
		}
	}

	// No name on file: fall back to the email's local part.
	if snapshot.DisplayName == "" {
		snapshot.DisplayName, _, _ = strings.Cut(snapshot.Email, "@")
	}
	snapshot.Initials = textnorm.Initials(snapshot.DisplayName)

	return snapshot
}

// # Relative Time

/*
RelativeTime renders an instant relative to now, for the activity feed.

Description: Sub-minute instants are "Just now"; minutes, hours, and days
get counted phrases with singular forms; anything a week old or older falls
back to the absolute locale date.
*/
func RelativeTime(instant, now time.Time) string {
	elapsed := now.Sub(instant)

	switch {
	case elapsed < time.Minute:
		return "Just now"
	case elapsed < time.Hour:
		return pluralize(int(elapsed.Minutes()), "minute")
	case elapsed < 24*time.Hour:
		return pluralize(int(elapsed.Hours()), "hour")
	case elapsed < 7*24*time.Hour:
		return pluralize(int(elapsed.Hours()/24), "day")
	default:
		return instant.Format(localeDateLayout)
	}
}

// RelativeTimeCoarse is the profile card's hours/days-only variant. It is
// intentionally not unified with [RelativeTime]: the card never shows
// minutes and never falls back to an absolute date.
func RelativeTimeCoarse(instant, now time.Time) string {
	elapsed := now.Sub(instant)

	switch {
	case elapsed < time.Hour:
		return "Just now"
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(elapsed.Hours()/24))
	}
}

// pluralize renders "1 minute ago" / "5 minutes ago" style phrases.
func pluralize(count int, unit string) string {
	if count == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", count, unit)
}
