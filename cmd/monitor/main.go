package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// LogEntry matches the Zap JSON structure
type LogEntry struct {
	Level   string `json:"level"`
	Msg     string `json:"msg"`
	TaskID  string `json:"task_id"`
	Room    string `json:"room"`
	Floor   int    `json:"floor"`
	Service string `json:"service"`
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[37m"
)

func main() {
	fmt.Println(colorCyan + "🏨 Housekeeping Dispatch Monitor Starting..." + colorReset)
	fmt.Println(colorGray + "Listening for task events from the dispatcher service..." + colorReset)
	fmt.Println("-------------------------------------------------------------------------")

	// Use docker service logs with follow and tail
	cmd := exec.Command("docker", "service", "logs", "-f", "housekeeping_dispatcher")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		fmt.Printf("Error creating stdout pipe: %v\n", err)
		return
	}

	if err := cmd.Start(); err != nil {
		fmt.Printf("Error starting docker logs command: %v\n", err)
		return
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()

		// Docker service logs format: "service_name.instance.id | {JSON}"
		parts := strings.SplitN(line, "|", 2)
		if len(parts) < 2 {
			continue
		}

		jsonPayload := strings.TrimSpace(parts[1])

		var entry LogEntry
		if err := json.Unmarshal([]byte(jsonPayload), &entry); err != nil {
			// Not a JSON log or different format, ignore
			continue
		}

		prettify(entry)
	}

	if err := cmd.Wait(); err != nil {
		fmt.Printf("Docker command exited: %v\n", err)
	}
}

func prettify(entry LogEntry) {
	room := entry.Room
	if room == "" {
		room = entry.TaskID
	}

	switch {
	case strings.Contains(entry.Msg, "Checkout processed"):
		fmt.Printf("🧾 "+colorYellow+"Checkout:"+colorReset+"  room %s (floor %d)\n", room, entry.Floor)
	case strings.Contains(entry.Msg, "Task assigned"):
		fmt.Printf("🧹 "+colorBlue+"Assigned:"+colorReset+"  room %s\n", room)
	case strings.Contains(entry.Msg, "Task completed"):
		fmt.Printf("✅ "+colorGreen+"Completed:"+colorReset+" room %s\n", room)
	case strings.Contains(entry.Msg, "Not enough available workers"):
		fmt.Printf("⏳ "+colorYellow+"Waiting:"+colorReset+"   task %s needs a worker pair\n", entry.TaskID)
	case strings.Contains(entry.Msg, "Sweep heartbeat"):
		// Skip heartbeats to keep it clean
	case entry.Level == "error":
		fmt.Printf("❌ "+colorRed+"ERROR:"+colorReset+" %s\n", entry.Msg)
	}
}
