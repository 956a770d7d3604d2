package instance

import "github.com/ziksirlabs/ziksir-backend/pkg/env"

// GetID identifies this process in logs when several replicas run.
func GetID() string {
	return env.Get("ZIKSIR_INSTANCE_ID", "ziksir-0")
}
