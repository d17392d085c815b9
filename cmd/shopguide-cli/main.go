package main

import (
	"context"

	"shopguide-backend/cmd/shopguide-cli/commands"
	"shopguide-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "shopguide-cli")
	commands.ExecuteContext(context.Background())
}
