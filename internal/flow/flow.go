// Package flow models the quiz client's view flow as an explicit state
// machine instead of a string flag switched inside the renderer. Transitions
// are pure so any presentation layer can drive them.
package flow

// State is one of the quiz client's views.
type State string

const (
	StateStart       State = "start"
	StateQuiz        State = "quiz"
	StateResult      State = "result"
	StateLeaderboard State = "leaderboard"
	StateAdmin       State = "admin"
)

// Event is a user action that may move the flow to another view.
type Event string

const (
	EventStartQuiz       Event = "startQuiz"
	EventSubmitQuiz      Event = "submitQuiz"
	EventViewLeaderboard Event = "viewLeaderboard"
	EventBack            Event = "back"
	EventAdminLogin      Event = "adminLogin"
	EventLogout          Event = "logout"
)

// Next returns the state that follows event in state. Events with no
// transition defined for the current state leave it unchanged.
func Next(state State, event Event) State {
	switch state {
	case StateStart:
		switch event {
		case EventStartQuiz:
			return StateQuiz
		case EventViewLeaderboard:
			return StateLeaderboard
		case EventAdminLogin:
			return StateAdmin
		}
	case StateQuiz:
		if event == EventSubmitQuiz {
			return StateResult
		}
	case StateResult:
		if event == EventViewLeaderboard {
			return StateLeaderboard
		}
	case StateLeaderboard:
		if event == EventBack {
			return StateStart
		}
	case StateAdmin:
		if event == EventLogout {
			return StateStart
		}
	}
	return state
}
