package application

import (
	"fmt"

	"github.com/davarch/actions-dash/internal/domain"
)

type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// NoticeKind lets the renderer pick a dedicated presentation for the
// notices that warrant one; everything else is NoticeGeneral.
type NoticeKind int

const (
	NoticeGeneral NoticeKind = iota
	NoticeInvalidToken
	NoticeExpiredToken
	NoticeConfig
	NoticeJSONDecode
	NoticeJobLogDownloaded
	NoticeScreenCaptured
	NoticeLogLevel
)

type Notice struct {
	Level   NoticeLevel
	Kind    NoticeKind
	Message string
}

// Notices holds the two pending queues plus the most recently shown
// notice for replay. Errors pop before info so routine messages never
// starve a failure.
type Notices struct {
	info       []Notice
	errors     []Notice
	mostRecent *Notice
}

func NewNotices() *Notices {
	return &Notices{}
}

func (n *Notices) Apply(event domain.Event) {
	switch e := event.(type) {
	case domain.AppError:
		n.Push(classifyFailure(e.Err))
	case domain.JobLogDownloaded:
		n.Push(Notice{Level: NoticeInfo, Kind: NoticeJobLogDownloaded, Message: "Job log downloaded"})
	case domain.ScreenCaptureSaved:
		n.Push(Notice{
			Level:   NoticeInfo,
			Kind:    NoticeScreenCaptured,
			Message: fmt.Sprintf("Screen captured to %s", e.Path),
		})
	case domain.LogLevelChanged:
		n.Push(Notice{
			Level:   NoticeInfo,
			Kind:    NoticeLogLevel,
			Message: fmt.Sprintf("Log level changed to %s", e.Level),
		})
	}
}

func (n *Notices) Push(notice Notice) {
	if notice.Level == NoticeError {
		n.errors = append(n.errors, notice)
		return
	}
	n.info = append(n.info, notice)
}

// Pop removes and returns the oldest pending notice, preferring errors
// over info. The popped notice becomes the most recent one.
func (n *Notices) Pop() (Notice, bool) {
	var notice Notice
	switch {
	case len(n.errors) > 0:
		notice, n.errors = n.errors[0], n.errors[1:]
	case len(n.info) > 0:
		notice, n.info = n.info[0], n.info[1:]
	default:
		return Notice{}, false
	}
	n.mostRecent = &notice
	return notice, true
}

func (n *Notices) HasError() bool { return len(n.errors) > 0 }

func (n *Notices) Pending() int { return len(n.errors) + len(n.info) }

// LastNotification returns the most recently popped notice, or false if
// nothing was popped yet.
func (n *Notices) LastNotification() (Notice, bool) {
	if n.mostRecent == nil {
		return Notice{}, false
	}
	return *n.mostRecent, true
}

func classifyFailure(f domain.Failure) Notice {
	kind := NoticeGeneral
	switch f.Kind {
	case domain.FailInvalidToken:
		kind = NoticeInvalidToken
	case domain.FailExpiredToken:
		kind = NoticeExpiredToken
	case domain.FailConfigFileNotFound, domain.FailConfigLoad,
		domain.FailConfigSave, domain.FailConfigValidation:
		kind = NoticeConfig
	case domain.FailJSONDecode:
		kind = NoticeJSONDecode
	}
	return Notice{Level: NoticeError, Kind: kind, Message: f.Error()}
}
