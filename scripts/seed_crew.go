// seed_crew.go is a standalone script that parses a ROSTER.md and seeds teams,
// students and tasks via the Rebalance API.
//
// Usage:
//
//	go run scripts/seed_crew.go -roster /path/to/ROSTER.md -api http://localhost:8700
//
// Roster format:
//
//	## Team Alpha
//	- Alice | ENTJ | motivation=4.5
//	- Bob | ISFP
//	### Tasks
//	- [ ] Build CSV importer | coding | difficulty=4 | hours=8 @Alice
//	- [x] Sketch logo | design | difficulty=2 @Bob
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
)

type studentPayload struct {
	Name            string   `json:"name"`
	PersonalityCode string   `json:"personality_code,omitempty"`
	TeamID          string   `json:"team_id"`
	Motivation      *float64 `json:"motivation,omitempty"`
}

type taskPayload struct {
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	Difficulty     int      `json:"difficulty,omitempty"`
	Assignees      []string `json:"assignees,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	Source         string   `json:"source"`
}

type seeder struct {
	apiURL   string
	dryRun   bool
	students map[string]string // name -> id
	teamID   string
}

func main() {
	rosterPath := flag.String("roster", "ROSTER.md", "path to roster file")
	apiURL := flag.String("api", "http://localhost:8700", "Rebalance API base URL")
	dryRun := flag.Bool("dry-run", false, "print payloads without posting")
	flag.Parse()

	f, err := os.Open(*rosterPath)
	if err != nil {
		log.Fatalf("open roster: %v", err)
	}
	defer f.Close()

	s := &seeder{
		apiURL:   strings.TrimRight(*apiURL, "/"),
		dryRun:   *dryRun,
		students: make(map[string]string),
	}

	inTasks := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "### Tasks"):
			inTasks = true
		case strings.HasPrefix(line, "## "):
			inTasks = false
			s.createTeam(strings.TrimSpace(strings.TrimPrefix(line, "## ")))
		case strings.HasPrefix(line, "- [ ] ") || strings.HasPrefix(line, "- [x] "):
			if inTasks {
				s.createTask(line)
			}
		case strings.HasPrefix(line, "- "):
			if !inTasks {
				s.createStudent(strings.TrimPrefix(line, "- "))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read roster: %v", err)
	}
}

func (s *seeder) createTeam(name string) {
	if name == "" {
		return
	}
	resp := s.post("/api/v1/teams", map[string]string{"name": name})
	if resp != nil {
		s.teamID, _ = resp["team_id"].(string)
	}
	log.Printf("team %q -> %s", name, s.teamID)
}

// createStudent parses "Name | CODE | motivation=X".
func (s *seeder) createStudent(line string) {
	if s.teamID == "" && !s.dryRun {
		log.Fatalf("student %q appears before any team header", line)
	}

	payload := studentPayload{TeamID: s.teamID}
	for i, part := range strings.Split(line, "|") {
		part = strings.TrimSpace(part)
		switch {
		case i == 0:
			payload.Name = part
		case strings.HasPrefix(part, "motivation="):
			if v, err := strconv.ParseFloat(strings.TrimPrefix(part, "motivation="), 64); err == nil {
				payload.Motivation = &v
			}
		case len(part) == 4:
			payload.PersonalityCode = part
		}
	}
	if payload.Name == "" {
		return
	}

	resp := s.post("/api/v1/students", payload)
	if resp != nil {
		if id, ok := resp["student_id"].(string); ok {
			s.students[payload.Name] = id
		}
	}
	log.Printf("student %q -> %s", payload.Name, s.students[payload.Name])
}

// createTask parses "- [ ] Title | category | difficulty=N | hours=H @Name".
func (s *seeder) createTask(line string) {
	completed := strings.HasPrefix(line, "- [x] ")
	body := strings.TrimPrefix(strings.TrimPrefix(line, "- [x] "), "- [ ] ")

	var assignee string
	if at := strings.LastIndex(body, "@"); at >= 0 {
		assignee = strings.TrimSpace(body[at+1:])
		body = strings.TrimSpace(body[:at])
	}

	payload := taskPayload{Difficulty: 3, Source: "roster"}
	for i, part := range strings.Split(body, "|") {
		part = strings.TrimSpace(part)
		switch {
		case i == 0:
			payload.Title = part
		case strings.HasPrefix(part, "difficulty="):
			if v, err := strconv.Atoi(strings.TrimPrefix(part, "difficulty=")); err == nil {
				payload.Difficulty = v
			}
		case strings.HasPrefix(part, "hours="):
			if v, err := strconv.ParseFloat(strings.TrimPrefix(part, "hours="), 64); err == nil {
				payload.EstimatedHours = &v
			}
		default:
			if payload.Category == "" {
				payload.Category = part
			}
		}
	}
	if payload.Title == "" || payload.Category == "" {
		log.Printf("skipping malformed task line: %q", line)
		return
	}
	if assignee != "" {
		if id, ok := s.students[assignee]; ok {
			payload.Assignees = []string{id}
		} else {
			log.Printf("task %q references unknown student %q", payload.Title, assignee)
		}
	}

	resp := s.post("/api/v1/tasks", payload)
	log.Printf("task %q (completed=%v)", payload.Title, completed)

	if completed && resp != nil {
		if id, ok := resp["task_id"].(string); ok {
			s.post("/api/v1/tasks/"+id+"/start", struct{}{})
			s.post("/api/v1/tasks/"+id+"/complete", struct{}{})
		}
	}
}

func (s *seeder) post(path string, payload interface{}) map[string]interface{} {
	data, _ := json.Marshal(payload)
	if s.dryRun {
		fmt.Printf("POST %s %s\n", path, data)
		return nil
	}

	resp, err := http.Post(s.apiURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		log.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Fatalf("POST %s: unexpected status %d", path, resp.StatusCode)
	}

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return out
}
