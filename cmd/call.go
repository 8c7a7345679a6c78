package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/meshagent-community/linkedin-agent/utils/httpUtils"
	"github.com/spf13/cobra"
)

var (
	flagHost         string
	flagArgs         []string
	flagConversation string
	flagAuthToken    string
)

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Invoke a tool or agent on a running service host",
}

var callToolCmd = &cobra.Command{
	Use:   "tool <path> <name>",
	Short: "Call a tool, e.g. call tool /linkedintools verify-linkedin-auth",
	Args:  cobra.ExactArgs(2),
	RunE:  runCallTool,
}

var callAgentCmd = &cobra.Command{
	Use:   "agent <path> <message>",
	Short: "Chat with an agent, e.g. call agent /linkedinagent \"draft a post\"",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCallAgent,
}

func init() {
	callCmd.PersistentFlags().StringVar(&flagHost, "host", "http://localhost:7778", "service host base URL")
	callCmd.PersistentFlags().StringVar(&flagAuthToken, "token", "", "bearer token when the host requires auth")
	callToolCmd.Flags().StringArrayVar(&flagArgs, "arg", nil, "tool argument as key=value, repeatable")
	callAgentCmd.Flags().StringVar(&flagConversation, "conversation", "", "continue an existing conversation")
	callCmd.AddCommand(callToolCmd)
	callCmd.AddCommand(callAgentCmd)
	rootCmd.AddCommand(callCmd)
}

func callHeaders() map[string]string {
	if flagAuthToken == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + flagAuthToken}
}

func runCallTool(_ *cobra.Command, args []string) error {
	path, toolName := args[0], args[1]

	toolArgs := make(map[string]any)
	for _, arg := range flagArgs {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return fmt.Errorf("invalid --arg %q, want key=value", arg)
		}
		toolArgs[key] = value
	}

	var response struct {
		Text    string `json:"text"`
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	err := httpUtils.PostRequest(
		fmt.Sprintf("%s%s/tools/%s", flagHost, path, toolName),
		callHeaders(),
		toolArgs,
		&response,
		nil,
	)
	if err != nil {
		return err
	}

	if response.Error != "" {
		return errors.New(response.Error)
	}

	fmt.Println(response.Text)
	if !response.Success {
		return errors.New("tool reported failure")
	}
	return nil
}

func runCallAgent(_ *cobra.Command, args []string) error {
	path := args[0]
	message := strings.Join(args[1:], " ")

	request := map[string]string{
		"conversation_id": flagConversation,
		"message":         message,
	}

	var response struct {
		ConversationID string `json:"conversation_id"`
		Reply          string `json:"reply"`
		Error          string `json:"error"`
	}
	err := httpUtils.PostRequest(
		fmt.Sprintf("%s%s/chat", flagHost, path),
		callHeaders(),
		request,
		&response,
		nil,
	)
	if err != nil {
		return err
	}

	if response.Error != "" {
		return errors.New(response.Error)
	}

	output, _ := json.Marshal(map[string]string{
		"conversation_id": response.ConversationID,
		"reply":           response.Reply,
	})
	fmt.Println(string(output))
	return nil
}
