package notify

import (
	"context"
	"os"
	"time"

	"github.com/ariel-frischer/occtl/internal/logger"
)

// Title is shown on desktop notifications.
const Title = "occtl"

// DefaultTimeout bounds a single desktop notification.
const DefaultTimeout = 5 * time.Second

// Level is the severity of a notification.
type Level string

const (
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Notification is a single message to show.
type Notification struct {
	Title   string
	Message string
	Level   Level
}

// Config holds notification preferences.
type Config struct {
	// Desktop enables OS notifications in addition to the log.
	Desktop bool
}

// Notifier logs messages and optionally mirrors them to the desktop.
type Notifier struct {
	config  Config
	sender  Sender
	timeout time.Duration
	getenv  func(string) string
}

// New returns a Notifier using the platform sender.
func New(config Config) *Notifier {
	return NewWithSender(config, NewSender())
}

// NewWithSender returns a Notifier using sender.
func NewWithSender(config Config, sender Sender) *Notifier {
	return &Notifier{
		config:  config,
		sender:  sender,
		timeout: DefaultTimeout,
		getenv:  os.Getenv,
	}
}

// Warn logs msg at warn level.
func (n *Notifier) Warn(msg string) {
	logger.Warn().Msg(msg)
	n.desktop(Notification{Title: Title, Message: msg, Level: LevelWarn})
}

// Error logs msg at error level. Commands use it for failures the user
// should see even when the terminal is hidden.
func (n *Notifier) Error(msg string) {
	logger.Error().Msg(msg)
	n.desktop(Notification{Title: Title, Message: msg, Level: LevelError})
}

func (n *Notifier) desktop(note Notification) {
	if !n.config.Desktop || n.sender == nil || !n.sender.Available() || n.isCI() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- n.sender.Send(note) }()

	select {
	case err := <-done:
		if err != nil {
			logger.Debug().Err(err).Msg("desktop notification failed")
		}
	case <-ctx.Done():
		logger.Debug().Msg("desktop notification timed out")
	}
}

var ciVars = []string{
	"CI",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_URL",
	"BUILDKITE",
	"DRONE",
	"TEAMCITY_VERSION",
	"TF_BUILD",            // Azure DevOps
	"BITBUCKET_PIPELINES", // Bitbucket
	"CODEBUILD_BUILD_ID",  // AWS CodeBuild
}

func (n *Notifier) isCI() bool {
	for _, v := range ciVars {
		if n.getenv(v) != "" {
			return true
		}
	}
	return false
}
