package pulse

const (
	SubjectAdvisorRun = "crew.reassign.advisor.run"

	// Task lifecycle events published by the task API; the advisor
	// subscribes to invalidate its evaluation cache.
	SubjectTaskChanged = "crew.task.>"

	StreamName   = "REBALANCE_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectTaskCreated(taskID string) string { return "crew.task." + taskID + ".created" }
func SubjectTaskUpdated(taskID string) string { return "crew.task." + taskID + ".updated" }

func SubjectSkillEvaluated(studentID string) string { return "crew.skill." + studentID + ".evaluated" }

func SubjectLoadAlert(studentID string) string { return "crew.load." + studentID + ".alert" }

func SubjectSuggested(taskID string) string { return "crew.reassign." + taskID + ".suggested" }
