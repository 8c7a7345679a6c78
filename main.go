package main

import (
	_ "github.com/joho/godotenv/autoload"
	"github.com/meshagent-community/linkedin-agent/cmd"
	"github.com/meshagent-community/linkedin-agent/logger"
	"github.com/meshagent-community/linkedin-agent/utils"
)

var log = logger.New("main")

func main() {
	versionInfo, err := utils.ReadVersionInfo()
	if err == nil {
		log.Info().Msgf("linkedin-agent-%s, %v", versionInfo.Revision, versionInfo.LastCommit)
	}

	cmd.Execute()
}
