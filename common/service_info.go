package common

import "os"

const defaultServiceName = "huddle"

func GetServiceName() string {
	name := os.Getenv("SERVICE_NAME")
	if name == "" {
		return defaultServiceName
	}
	return name
}
