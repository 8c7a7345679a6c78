package cmd

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/meshagent-community/linkedin-agent/agent"
	"github.com/meshagent-community/linkedin-agent/llm/openai"
	"github.com/meshagent-community/linkedin-agent/logger"
	sqlModel "github.com/meshagent-community/linkedin-agent/model/sql"
	"github.com/meshagent-community/linkedin-agent/room"
	"github.com/meshagent-community/linkedin-agent/service"
	"github.com/meshagent-community/linkedin-agent/tool"
	"github.com/meshagent-community/linkedin-agent/tool/linkedintools"
	"github.com/meshagent-community/linkedin-agent/tool/readpage"
	"github.com/meshagent-community/linkedin-agent/tool/websearch"
	"github.com/spf13/cobra"
)

var log = logger.New("cmd")

var (
	flagAgentName       string
	flagImageGeneration string
	flagPort            int
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Run the service host (container entrypoint)",
	RunE:  runService,
}

func init() {
	serviceCmd.Flags().StringVar(&flagAgentName, "agent-name", "", "advertised agent name")
	serviceCmd.Flags().StringVar(&flagImageGeneration, "image-generation", "", "enable the generate-image tool with this model")
	serviceCmd.Flags().IntVar(&flagPort, "port", 0, "listen port (default MESHAGENT_PORT or 7778)")
	rootCmd.AddCommand(serviceCmd)
}

func runService(cmd *cobra.Command, _ []string) error {
	db, err := sqlModel.New()
	if err != nil {
		return err
	}

	if err := db.Ping(); err != nil {
		return err
	}
	log.Info().Msg("Database connection established")

	credentialService := sqlModel.NewCredentialService(db)
	postService := sqlModel.NewPostService(db)
	conversationService := sqlModel.NewConversationService(db)
	registrationService := sqlModel.NewRegistrationService(db)

	roomClient, err := room.NewClient(registrationService)
	if err != nil {
		return err
	}

	linkedinToolkit := linkedintools.NewToolkit(postService, nil)
	researchToolkit := &tool.Toolkit{
		Name:        "web-search",
		Title:       "web search",
		Description: "research tools for drafting posts",
		Tools: []tool.Tool{
			websearch.New(credentialService),
			readpage.New(),
		},
	}

	chatBot := agent.New(agent.Config{
		Name:                flagAgentName,
		Adapter:             openai.New(credentialService),
		Toolkits:            []*tool.Toolkit{linkedinToolkit, researchToolkit},
		ImageModel:          flagImageGeneration,
		ConversationService: conversationService,
	})

	host := service.NewHost(resolvePort(), os.Getenv("SERVICE_AUTH_TOKEN"), roomClient)
	host.RegisterToolkit("/linkedintools", linkedinToolkit)
	host.RegisterAgent("/linkedinagent", chatBot)

	if roomClient != nil {
		for _, info := range host.Paths() {
			log.Info().
				Str("room", roomClient.RoomName()).
				Str("path", info.Path).
				Str("kind", info.Kind).
				Msg("Announcing to room")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return host.Run(ctx)
}

func resolvePort() int {
	if flagPort != 0 {
		return flagPort
	}
	if env := os.Getenv("MESHAGENT_PORT"); env != "" {
		if port, err := strconv.Atoi(env); err == nil {
			return port
		}
		log.Warn().Str("MESHAGENT_PORT", env).Msg("Invalid port, using default")
	}
	return service.DefaultPort
}
