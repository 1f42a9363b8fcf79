package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"
)

const (
	simulationDuration = 5 * time.Minute
	injectionInterval  = 5 * time.Second
	apiBase            = "http://localhost:8080"
)

type checkoutRequest struct {
	RoomNumber    string     `json:"room_number"`
	NextArrival   *time.Time `json:"next_arrival,omitempty"`
	NextGuestVIP  bool       `json:"next_guest_vip"`
	NextGuestName string     `json:"next_guest_name,omitempty"`
}

type queueStatus struct {
	Tasks []struct {
		ID         string   `json:"id"`
		RoomNumber string   `json:"room_number"`
		Status     string   `json:"status"`
		Priority   int      `json:"priority"`
		AssignedTo []string `json:"assigned_to"`
	} `json:"tasks"`
	PendingCount    int `json:"pending_count"`
	InProgressCount int `json:"in_progress_count"`
}

func main() {
	client := &http.Client{Timeout: 5 * time.Second}

	if _, err := client.Get(apiBase + "/healthz"); err != nil {
		log.Fatal("Dispatcher unreachable (ensure the service is running):", err)
	}

	fmt.Println("🚀 Starting 5-minute Checkout Traffic Simulation...")
	fmt.Println("   Monitoring dispatcher decisions...")

	endTime := time.Now().Add(simulationDuration)
	ticker := time.NewTicker(injectionInterval)
	defer ticker.Stop()

	// Monitor queue in background
	go monitorQueue(client)

	floors := []int{1, 2, 3, 4, 5, 12}

	for range ticker.C {
		if time.Now().After(endTime) {
			fmt.Println("\n✅ Simulation Complete.")
			return
		}

		// Generate a batch of checkouts
		batchSize := rand.Intn(3) + 1 // 1-3 checkouts
		fmt.Printf("\n[Generator] Injecting %d checkouts...\n", batchSize)

		for i := 0; i < batchSize; i++ {
			floor := floors[rand.Intn(len(floors))]
			position := rand.Intn(12) + 1 // rooms 01-12: mixes suites, deluxe, standard
			room := fmt.Sprintf("%d%02d", floor, position)

			req := checkoutRequest{RoomNumber: room}

			// Roughly a third of rooms have an imminent VIP arrival
			if rand.Float64() < 0.3 {
				arrival := time.Now().Add(time.Duration(rand.Intn(180)) * time.Minute)
				req.NextArrival = &arrival
				req.NextGuestVIP = rand.Float64() < 0.5
			}

			body, _ := json.Marshal(req)
			resp, err := client.Post(apiBase+"/checkouts", "application/json", bytes.NewReader(body))
			if err != nil {
				log.Printf("Failed to submit checkout for %s: %v", room, err)
				continue
			}
			if resp.StatusCode == http.StatusConflict {
				fmt.Printf("   ↩️  Room %s already queued, skipped\n", room)
			}
			resp.Body.Close()
		}
	}
}

func monitorQueue(client *http.Client) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	seen := make(map[string]bool)

	for range ticker.C {
		resp, err := client.Get(apiBase + "/queue")
		if err != nil {
			log.Println("Monitor error:", err)
			continue
		}

		var status queueStatus
		if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
			resp.Body.Close()
			continue
		}
		resp.Body.Close()

		for _, t := range status.Tasks {
			if t.Status == "ASSIGNED" && !seen[t.ID] {
				seen[t.ID] = true
				fmt.Printf("   👀 Dispatcher staffed room %s -> %v (priority %d)\n", t.RoomNumber, t.AssignedTo, t.Priority)
			}
		}
	}
}
