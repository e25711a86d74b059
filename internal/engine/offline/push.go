package offline

import (
	"encoding/json"
	"strings"

	"go.trai.ch/fjordsync/internal/core/domain"
	"go.trai.ch/zerr"
)

// Push notification defaults.
const (
	defaultPushTitle = "FjordSync"
	defaultPushBody  = "Ny varsling fra FjordSync"
	defaultPushTag   = "fjordsync-notification"
)

// HandlePush decodes an incoming push payload, filling the display defaults
// for missing fields. An empty payload is an error; the caller shows
// nothing.
func HandlePush(raw []byte) (domain.PushPayload, error) {
	if len(raw) == 0 {
		return domain.PushPayload{}, zerr.New("empty push payload")
	}

	var p domain.PushPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.PushPayload{}, zerr.Wrap(err, "failed to decode push payload")
	}

	if p.Title == "" {
		p.Title = defaultPushTitle
	}
	if p.Body == "" {
		p.Body = defaultPushBody
	}
	if p.Tag == "" {
		p.Tag = defaultPushTag
	}
	if p.URL == "" {
		p.URL = "/"
	}
	return p, nil
}

// ClickAction is the outcome of a notification click: which URL to show
// and whether an already open context should be focused instead of opening
// a new one.
type ClickAction struct {
	URL   string
	Focus bool
}

// HandleNotificationClick decides what a notification click should do given
// the URLs of the currently open contexts.
func HandleNotificationClick(target string, openURLs []string) ClickAction {
	if target == "" {
		target = "/"
	}
	for _, open := range openURLs {
		if strings.Contains(open, target) {
			return ClickAction{URL: open, Focus: true}
		}
	}
	return ClickAction{URL: target}
}
