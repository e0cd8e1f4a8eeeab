package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const (
	targetHost = "http://localhost:8081" // e2e окружение
	rps        = 5
	duration   = 3 * time.Minute
	project    = "load-project"
)

type EventRequest struct {
	Type           string `json:"type"`
	Project        string `json:"project"`
	ChangeID       string `json:"change_id"`
	PatchSetNumber int    `json:"patch_set"`
	Revision       string `json:"revision"`
	AuthorID       string `json:"author_id"`
}

type RefUpdateRequest struct {
	Project string `json:"project"`
	Ref     string `json:"ref"`
}

var (
	changes   []string
	revisions map[string]string
	accounts  []string
	httpc     = &http.Client{Timeout: 10 * time.Second}
)

func postJSON(url string, body any) (int, error) {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// Seed
func seedData() error {
	log.Println("Seeding: emitting revision events...")

	revisions = make(map[string]string)
	for u := 1; u <= 50; u++ {
		accounts = append(accounts, fmt.Sprintf("u-%03d", u))
	}

	for c := 1; c <= 200; c++ {
		changeID := fmt.Sprintf("change-%04d", c)
		revision := fmt.Sprintf("%040x", c)
		event := EventRequest{
			Type:           "revision-created",
			Project:        project,
			ChangeID:       changeID,
			PatchSetNumber: 1,
			Revision:       revision,
			AuthorID:       accounts[rand.Intn(len(accounts))],
		}

		status, err := postJSON(targetHost+"/events", event)
		if err != nil {
			return err
		}
		if status >= 400 {
			log.Printf("WARN /events returned %d\n", status)
		}

		changes = append(changes, changeID)
		revisions[changeID] = revision
		time.Sleep(15 * time.Millisecond)
	}

	log.Printf("Seed completed: changes=%d accounts=%d\n", len(changes), len(accounts))
	return nil
}

// Targeter
func makeTargeter() vegeta.Targeter {
	return func(t *vegeta.Target) error {
		r := rand.Float64()

		// 50% GET owner-status
		if r < 0.50 {
			change := changes[rand.Intn(len(changes))]
			account := accounts[rand.Intn(len(accounts))]
			t.Method = http.MethodGet
			t.URL = fmt.Sprintf("%s/changes/%s/revisions/%s/owner-status?account=%s",
				targetHost, change, revisions[change], account)
			t.Body = nil
			t.Header = map[string][]string{"Accept": {"application/json"}}
			return nil
		}

		// 25% GET project owners
		if r < 0.75 {
			t.Method = http.MethodGet
			t.URL = fmt.Sprintf("%s/projects/%s/owners", targetHost, project)
			t.Body = nil
			t.Header = map[string][]string{"Accept": {"application/json"}}
			return nil
		}

		// 15% POST comment-added event
		if r < 0.90 {
			change := changes[rand.Intn(len(changes))]
			body, _ := json.Marshal(EventRequest{
				Type:           "comment-added",
				Project:        project,
				ChangeID:       change,
				PatchSetNumber: 1,
				Revision:       revisions[change],
				AuthorID:       accounts[rand.Intn(len(accounts))],
			})
			t.Method = http.MethodPost
			t.URL = targetHost + "/events"
			t.Body = body
			t.Header = map[string][]string{"Content-Type": {"application/json"}}
			return nil
		}

		// 8% POST submit-check
		if r < 0.98 {
			change := changes[rand.Intn(len(changes))]
			account := accounts[rand.Intn(len(accounts))]
			t.Method = http.MethodPost
			t.URL = fmt.Sprintf("%s/changes/%s/revisions/%s/submit-check?account=%s",
				targetHost, change, revisions[change], account)
			t.Body = nil
			t.Header = map[string][]string{"Accept": {"application/json"}}
			return nil
		}

		// 2% инвалидация конфигурации владения
		body, _ := json.Marshal(RefUpdateRequest{
			Project: project,
			Ref:     "refs/meta/config",
		})
		t.Method = http.MethodPost
		t.URL = targetHost + "/refs/updated"
		t.Body = body
		t.Header = map[string][]string{"Content-Type": {"application/json"}}
		return nil
	}
}

// Attack
func runAttack() {
	rate := vegeta.Rate{Freq: rps, Per: time.Second}
	attacker := vegeta.NewAttacker()
	targeter := makeTargeter()

	var metrics vegeta.Metrics

	log.Printf("Starting attack: %s for %s", targetHost, duration)
	for res := range attacker.Attack(targeter, rate, duration, "load-test") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("=== Results ===")
	fmt.Printf("Requests: %d\n", metrics.Requests)
	fmt.Printf("Success rate: %.4f%%\n", metrics.Success*100)
	fmt.Printf("Latency mean: %s\n", metrics.Latencies.Mean)
	fmt.Printf("Latency P95: %s\n", metrics.Latencies.P95)
	fmt.Printf("Latency P99: %s\n", metrics.Latencies.P99)
}

func main() {
	rand.Seed(time.Now().UnixNano())

	if err := seedData(); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	runAttack()
}
