package utils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type EnvVars struct {
	Host        string
	Port        int
	RabbitHost  string
	RabbitUser  string
	RabbitPass  string
	WorkQueue   string
	ResultQueue string
	WorkerLog   bool
	ServerLog   bool
}

func ReadEnvVars() EnvVars {
	// Loading .env file if it exists
	// It will not override already existing env vars
	_ = godotenv.Load()
	host := ReadStringEnvVarOr("HOST", "")
	port := ReadIntEnvVarOr("PORT", 5000)
	rabbitHost := ReadStringEnvVarOr("RABBIT_HOST", "")
	rabbitUser := ReadStringEnvVarOr("RABBIT_USER", "guest")
	rabbitPass := ReadStringEnvVarOr("RABBIT_PASSWORD", "guest")
	workQueue := ReadStringEnvVarOr("WORK_QUEUE", "work")
	resultQueue := ReadStringEnvVarOr("RESULT_QUEUE", "result")
	workerLog := readBoolEnvVarOr("WORKER_LOG", false)
	serverLog := readBoolEnvVarOr("SERVER_LOG", false)
	return EnvVars{
		Host: host, Port: port,
		RabbitHost: rabbitHost, RabbitUser: rabbitUser, RabbitPass: rabbitPass,
		WorkQueue: workQueue, ResultQueue: resultQueue,
		WorkerLog: workerLog, ServerLog: serverLog,
	}
}

// RabbitURL builds the AMQP connection string, or "" when no Rabbit
// host is configured (the server then runs without the async path).
func (e EnvVars) RabbitURL() string {
	if e.RabbitHost == "" {
		return ""
	}
	return fmt.Sprintf("amqp://%s:%s@%s:5672/", e.RabbitUser, e.RabbitPass, e.RabbitHost)
}

func ReadStringEnvVar(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%s not set", name)
	}
	return value, nil
}

func ReadStringEnvVarOr(name string, or string) string {
	value, err := ReadStringEnvVar(name)
	if err != nil {
		value = or
	}
	return value
}

func readIntEnvVar(name string) (int, error) {
	valueStr, err := ReadStringEnvVar(name)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("could not convert %s to a number: %v", name, err)
	}
	return value, nil
}

func ReadIntEnvVarOr(name string, or int) int {
	value, err := readIntEnvVar(name)
	if err != nil {
		value = or
	}
	return value
}

func readBoolEnvVarOr(name string, or bool) bool {
	valueStr, err := ReadStringEnvVar(name)
	if err != nil {
		return or
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return or
	}
	return value
}
