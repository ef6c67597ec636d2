// Package platform delivers desktop notifications through the host OS.
package platform

import "time"

// DefaultAppName is reported to notification daemons that group by sender.
const DefaultAppName = "combatpics"

// Options configures how a notification is displayed.
type Options struct {
	// AppName overrides DefaultAppName.
	AppName string
	// IconPath points to an image shown alongside the message when the
	// platform supports it.
	IconPath string
	// Expire is how long the notification stays visible; zero lets the
	// platform decide.
	Expire time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}
