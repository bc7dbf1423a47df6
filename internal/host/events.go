package host

import (
	"fmt"
	"time"

	"github.com/bnema/berkelium-go/pkg/berkelium"
)

// EventKind classifies session events.
type EventKind string

const (
	EventAddress    EventKind = "address"
	EventTitle      EventKind = "title"
	EventLoading    EventKind = "loading"
	EventLoaded     EventKind = "loaded"
	EventLoadError  EventKind = "load-error"
	EventConsole    EventKind = "console"
	EventDialog     EventKind = "dialog"
	EventChromeSend EventKind = "chrome-send"
	EventPopup      EventKind = "popup"
	EventCrash      EventKind = "crash"
	EventFatal      EventKind = "fatal"
	EventConfig     EventKind = "config"
)

// Event is something the engine reported to a session.
type Event struct {
	Kind EventKind
	Text string
	Time time.Time
}

func (e Event) String() string {
	return fmt.Sprintf("%s %-11s %s", e.Time.Format("15:04:05"), e.Kind, e.Text)
}

// answerDialog accepts every dialog. Prompts get their default text.
func answerDialog(a berkelium.ScriptAlert) berkelium.ScriptAlertResult {
	res := berkelium.ScriptAlertResult{Success: true}
	if a.Flags.Has(berkelium.AlertHasPromptField) {
		reply := a.DefaultPrompt
		res.Prompt = &reply
	}
	return res
}
