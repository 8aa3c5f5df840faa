package instance

import "github.com/angelmondragon/showroom-backend/pkg/env"

// GetID identifies the running process in logs: SHOWROOM_INSTANCE_ID, then the
// container hostname, then "local".
func GetID() string {
	return env.First("local", "SHOWROOM_INSTANCE_ID", "HOSTNAME")
}
