package main

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ppasini/fraudrank/pkg/jobs"
	"github.com/ppasini/fraudrank/pkg/utils"
)

func main() {
	// Read environment variables
	env := utils.ReadEnvVars()
	utils.InitLog(env.WorkerLog, env.ServerLog)

	url := env.RabbitURL()
	if url == "" {
		log.Fatal("RABBIT_HOST not set")
	}
	queueConn, err := amqp.Dial(url)
	utils.FailOnError("Could not connect to RabbitMQ", err)
	defer queueConn.Close()
	ch, err := queueConn.Channel()
	utils.FailOnError("Failed to open a channel to RabbitMQ", err)
	defer ch.Close()

	work, err := utils.DeclareQueue(env.WorkQueue, ch)
	utils.FailOnError("Failed to declare %q queue", err, env.WorkQueue)
	result, err := utils.DeclareQueue(env.ResultQueue, ch)
	utils.FailOnError("Failed to declare %q queue", err, env.ResultQueue)

	worker := jobs.Worker{
		Channel:     ch,
		WorkQueue:   work.Name,
		ResultQueue: result.Name,
	}
	utils.WorkerLog("Waiting for compute jobs on %q", work.Name)
	utils.FailOnError("Worker stopped", worker.Run())
}
