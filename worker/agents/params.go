package agents

import "storeforge/api/models"

// Task parameters arrive as a decoded JSON object, so numbers come back as
// float64 regardless of how the api stored them.

func paramString(task *models.AgentTask, key string) string {
	if v, ok := task.Parameters[key].(string); ok {
		return v
	}
	return ""
}

func paramInt64(task *models.AgentTask, key string) int64 {
	switch v := task.Parameters[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

func paramInt(task *models.AgentTask, key string) int {
	return int(paramInt64(task, key))
}
