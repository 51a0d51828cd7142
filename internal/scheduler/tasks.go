package scheduler

import (
	"encoding/json"

	"rental_backend/internal/email"

	"github.com/hibiken/asynq"
)

// TaskNotificationEmail delivers one rendered notification email.
const TaskNotificationEmail = "notification.email"

// NotificationEmailPayload is the asynq payload of TaskNotificationEmail.
type NotificationEmailPayload struct {
	Message email.Message `json:"message"`
}

func NewNotificationEmailTask(payload NotificationEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationEmail, data), nil
}

func ParseNotificationEmailPayload(task *asynq.Task) (NotificationEmailPayload, error) {
	var payload NotificationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NotificationEmailPayload{}, err
	}
	return payload, nil
}
