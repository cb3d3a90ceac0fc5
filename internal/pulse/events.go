package pulse

import "time"

type TaskChangedEvent struct {
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	Assignee string `json:"assignee,omitempty"`
	Category string `json:"category,omitempty"`
}

type SkillEvaluatedEvent struct {
	StudentID  string             `json:"student_id"`
	Scores     map[string]float64 `json:"scores"`
	Confidence map[string]float64 `json:"confidence"`
	Timestamp  time.Time          `json:"timestamp"`
}

type LoadAlertEvent struct {
	StudentID string    `json:"student_id"`
	Name      string    `json:"name"`
	Load      float64   `json:"load"`
	Danger    float64   `json:"danger"`
	Timestamp time.Time `json:"timestamp"`
}

type SuggestedEvent struct {
	TaskID   string `json:"task_id"`
	FromID   string `json:"from_student_id"`
	ToID     string `json:"to_student_id"`
	Priority string `json:"priority"`
	Score    int    `json:"score"`
	Reason   string `json:"reason"`
}

type AdvisorRunEvent struct {
	Students    int       `json:"students"`
	Tasks       int       `json:"tasks"`
	Suggestions int       `json:"suggestions"`
	Timestamp   time.Time `json:"timestamp"`
}

// Typed publish helpers pair each event with its subject so callers
// cannot mismatch them. A nil client is a no-op; the service runs
// without a bus when the connection is down.

func PublishTaskCreated(c Client, ev TaskChangedEvent) error {
	return publish(c, SubjectTaskCreated(ev.TaskID), ev)
}

func PublishTaskUpdated(c Client, ev TaskChangedEvent) error {
	return publish(c, SubjectTaskUpdated(ev.TaskID), ev)
}

func PublishSkillEvaluated(c Client, ev SkillEvaluatedEvent) error {
	return publish(c, SubjectSkillEvaluated(ev.StudentID), ev)
}

func PublishLoadAlert(c Client, ev LoadAlertEvent) error {
	return publish(c, SubjectLoadAlert(ev.StudentID), ev)
}

func PublishSuggested(c Client, ev SuggestedEvent) error {
	return publish(c, SubjectSuggested(ev.TaskID), ev)
}

func PublishAdvisorRun(c Client, ev AdvisorRunEvent) error {
	return publish(c, SubjectAdvisorRun, ev)
}

func publish(c Client, subject string, ev interface{}) error {
	if c == nil {
		return nil
	}
	return c.Publish(subject, ev)
}
