// Copyright (c) 2026 AuthFlow. All rights reserved.

/*
Package account implements the signed-in account surface of the gateway.

It covers the profile, the activity feed, device sessions, the admin probe,
and the dashboard aggregate the account pages render from.

Architecture:

  - Service: Orchestrates reads/writes through the session's auth facade and
    identity cell; owns display normalization and error mapping.
  - Dashboard: Pure derivation of the dashboard aggregate from activities,
    sessions, and the profile (dashboard.go). No I/O.
  - Handler: Transport layer (http.go).
*/
package account

import (
	"time"

	"github.com/Adititesting969/authflow-6448/internal/backend"
)

// # Dashboard Aggregate

// SecurityScore is the dashboard's account-hardening gauge. Each satisfied
// contribution adds 25 points.
type SecurityScore struct {
	Score int `json:"score"`

	// TwoFactorEnabled is a placeholder contribution: two-factor is not
	// offered yet, so it never scores.
	TwoFactorEnabled bool `json:"twoFactorEnabled"`

	// StrongPassword is a placeholder contribution: the stored password is
	// not re-evaluated, so it always scores.
	StrongPassword bool `json:"strongPassword"`

	HasActivity bool `json:"hasActivity"`
	FewSessions bool `json:"fewSessions"`
}

// UserStats are the dashboard's headline numbers.
type UserStats struct {
	TotalSessions int       `json:"totalSessions"`
	ActiveDevices int       `json:"activeDevices"`
	LastLogin     time.Time `json:"lastLogin"`

	// LastLoginDisplay is the profile card's coarse rendering of LastLogin
	// ("Just now", "5 hours ago", "2 days ago").
	LastLoginDisplay string `json:"lastLoginDisplay"`
}

// RecentEvent is one row of the dashboard's recent-activity list.
type RecentEvent struct {
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// ActivityEntry is one activity-feed row, with the relative timestamp the
// feed renders pre-computed.
type ActivityEntry struct {
	ID           string         `json:"id"`
	ActivityType string         `json:"activityType"`
	Title        string         `json:"title"`
	Description  *string        `json:"description,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	TimeAgo      string         `json:"timeAgo"`
}

// HeaderSnapshot is the identity block the page header renders.
type HeaderSnapshot struct {
	DisplayName string `json:"displayName"`
	Initials    string `json:"initials"`
	Email       string `json:"email"`
	MemberSince string `json:"memberSince"`
}

// DashboardView is the full dashboard payload.
type DashboardView struct {
	Profile       *backend.Profile `json:"profile"`
	SecurityScore SecurityScore    `json:"securityScore"`
	Stats         UserStats        `json:"stats"`
	RecentEvents  []RecentEvent    `json:"recentEvents"`
	Header        HeaderSnapshot   `json:"header"`
}
