package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"omniauction/internal/agent"
	model "omniauction/internal/models"
	"omniauction/utils"

	"github.com/gorilla/websocket"
)

const reconnectDelay = 5 * time.Second

func main() {
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	client := newAPIClient(baseURL)
	interp := agent.NewInterpreter(client)
	ctx := &agent.DialogueContext{}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("OmniAuction Agent")
	fmt.Println("Type 'exit' to quit")
	fmt.Println(strings.Repeat("=", 50))

	scanner := bufio.NewScanner(os.Stdin)

	fmt.Print("What's your name? ")
	if scanner.Scan() {
		ctx.BidderName = strings.TrimSpace(scanner.Text())
	}

	// Live bid updates arrive over the WebSocket in the background; the
	// listen loop reconnects on its own and never interrupts the session.
	go listenForUpdates(wsURL(baseURL), ctx.User())

	fmt.Printf("\nAgent: Hello %s! I'm your auction assistant. How can I help you today?\n", ctx.User())

	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		command := strings.TrimSpace(scanner.Text())
		if command == "" {
			continue
		}

		switch strings.ToLower(command) {
		case "exit", "quit", "bye", "goodbye":
			fmt.Println("Agent: Goodbye! Thank you for using OmniAuction.")
			return
		}

		fmt.Printf("Agent: %s\n", interp.Handle(ctx, command))
	}
}

// listenForUpdates keeps a subscription to the server's event stream alive,
// reconnecting with a fixed backoff whenever the connection drops.
func listenForUpdates(url, user string) {
	for {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			utils.Warn("agent: websocket connect failed, retrying", map[string]any{
				"url":   url,
				"error": err.Error(),
			})
			time.Sleep(reconnectDelay)
			continue
		}

		utils.Info("agent: connected to event stream", map[string]any{"url": url})

		for {
			var event model.BidPlacedEvent
			if err := conn.ReadJSON(&event); err != nil {
				utils.Warn("agent: event stream closed, reconnecting", map[string]any{"error": err.Error()})
				break
			}
			// Only announce other users' bids.
			if event.Type == model.EventBidPlaced && event.User != user {
				fmt.Printf("\n[update] New bid: $%.2f by %s on %s\n", event.Amount, event.User, event.ProductID)
			}
		}

		conn.Close()
		time.Sleep(reconnectDelay)
	}
}

// wsURL derives the WebSocket endpoint from the API base URL.
func wsURL(baseURL string) string {
	url := strings.Replace(baseURL, "https://", "wss://", 1)
	url = strings.Replace(url, "http://", "ws://", 1)
	return strings.TrimRight(url, "/") + "/ws"
}
