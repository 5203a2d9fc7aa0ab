package utils

import (
	"fmt"
	"log"
)

var workerLog bool
var serverLog bool

func InitLog(worker, server bool) {
	workerLog = worker
	serverLog = server
}

func ServerLog(format string, v ...any) {
	if serverLog {
		log.Printf("INFO Server: %s", fmt.Sprintf(format, v...))
	}
}

func WorkerLog(format string, v ...any) {
	if workerLog {
		log.Printf("INFO Worker: %s", fmt.Sprintf(format, v...))
	}
}

func WarnLog(role string, format string, v ...any) {
	log.Printf("WARN %s: %s", role, fmt.Sprintf(format, v...))
}
