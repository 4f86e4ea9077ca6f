// A small debug client: connects to one of the server's websocket streams
// and prints every event as it arrives.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "Address of the matching engine server")
	stream := flag.String("stream", "trades", "Stream to follow: 'trades' or 'orders'")
	flag.Parse()

	if *stream != "trades" && *stream != "orders" {
		fmt.Printf("Error: unknown stream %q\n", *stream)
		flag.Usage()
		os.Exit(1)
	}

	u := url.URL{Scheme: "ws", Host: *serverAddr, Path: "/ws/" + *stream}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", u.String(), err)
	}
	defer conn.Close()
	fmt.Printf("Connected to %s, following %s\n", *serverAddr, *stream)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("stream closed: %v", err)
				return
			}
			fmt.Println(string(message))
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
	case <-interrupt:
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		<-done
	}
}
