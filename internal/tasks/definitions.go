package tasks

// RegisterAll registers every task handler on the given registry
func RegisterAll(r *Registry) {
	r.Register(BroadcastTask.TaskID(), BroadcastTask.HandleExecution)
	r.Register(AdminAlertTask.TaskID(), AdminAlertTask.HandleExecution)
	r.Register(DueReminderTask.TaskID(), DueReminderTask.HandleExecution)
}
