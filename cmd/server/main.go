package main

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ppasini/fraudrank/pkg/api"
	"github.com/ppasini/fraudrank/pkg/jobs"
	"github.com/ppasini/fraudrank/pkg/utils"
)

func main() {
	// Read environment variables
	env := utils.ReadEnvVars()
	utils.InitLog(env.WorkerLog, env.ServerLog)

	var publisher *jobs.Publisher
	var results *jobs.ResultStore

	// Connect to RabbitMQ when configured; without it the server
	// still handles synchronous computations.
	if url := env.RabbitURL(); url != "" {
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

		publisher = &jobs.Publisher{Channel: ch, Queue: work.Name}
		results = utils.NewSafeMap[string, *jobs.ComputeResult]()
		// Collect finished jobs in the background
		go func() {
			err := jobs.Collect(ch, result.Name, results)
			utils.FailOnError("Result collector stopped", err)
		}()
	} else {
		utils.WarnLog("server", "RABBIT_HOST not set, async compute disabled")
	}

	server := api.NewServer(publisher, results)
	addr := fmt.Sprintf("%s:%d", env.Host, env.Port)
	utils.FailOnError("Server stopped", server.Start(addr))
}
