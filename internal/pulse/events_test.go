package pulse

import (
	"testing"
	"time"
)

type captureClient struct {
	subjects []string
	payloads []interface{}
}

func (c *captureClient) Publish(subject string, data interface{}) error {
	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, data)
	return nil
}

func (c *captureClient) Subscribe(string, func(string, []byte)) error { return nil }
func (c *captureClient) Close()                                       {}

func TestPublishHelpersRouteSubjects(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		publish func(Client) error
		subject string
	}{
		{
			"task created",
			func(c Client) error { return PublishTaskCreated(c, TaskChangedEvent{TaskID: "t1"}) },
			"crew.task.t1.created",
		},
		{
			"task updated",
			func(c Client) error { return PublishTaskUpdated(c, TaskChangedEvent{TaskID: "t1"}) },
			"crew.task.t1.updated",
		},
		{
			"skill evaluated",
			func(c Client) error {
				return PublishSkillEvaluated(c, SkillEvaluatedEvent{StudentID: "s1", Timestamp: now})
			},
			"crew.skill.s1.evaluated",
		},
		{
			"load alert",
			func(c Client) error { return PublishLoadAlert(c, LoadAlertEvent{StudentID: "s1", Load: 4.8}) },
			"crew.load.s1.alert",
		},
		{
			"suggested",
			func(c Client) error { return PublishSuggested(c, SuggestedEvent{TaskID: "t1", Score: 72}) },
			"crew.reassign.t1.suggested",
		},
		{
			"advisor run",
			func(c Client) error { return PublishAdvisorRun(c, AdvisorRunEvent{Students: 3}) },
			"crew.reassign.advisor.run",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &captureClient{}
			if err := tt.publish(c); err != nil {
				t.Fatalf("publish failed: %v", err)
			}
			if len(c.subjects) != 1 || c.subjects[0] != tt.subject {
				t.Errorf("expected subject %q, got %v", tt.subject, c.subjects)
			}
		})
	}
}

func TestPublishHelpersTolerateNilClient(t *testing.T) {
	if err := PublishTaskCreated(nil, TaskChangedEvent{TaskID: "t1"}); err != nil {
		t.Errorf("nil client publish errored: %v", err)
	}
	if err := PublishAdvisorRun(nil, AdvisorRunEvent{}); err != nil {
		t.Errorf("nil client publish errored: %v", err)
	}
}
