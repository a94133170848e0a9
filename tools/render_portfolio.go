package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"portfolio-gateway/internal/model"
)

// Validates a saved profile JSON against the profile schema and renders it
// through the portfolio template for offline inspection:
//
//	go run ./tools profile.json out.html
func main() {
	in := "profile.json"
	out := filepath.Join("generated", "portfolio.html")
	if len(os.Args) > 1 {
		in = os.Args[1]
	}
	if len(os.Args) > 2 {
		out = os.Args[2]
	}

	b, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read profile: %v\n", err)
		os.Exit(2)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}

	if err := model.ValidateProfile(filepath.Join("templates", "profile.schema.json"), raw); err != nil {
		fmt.Fprintf(os.Stderr, "invalid profile: %v\n", err)
		os.Exit(1)
	}

	var profile model.Profile
	if err := json.Unmarshal(b, &profile); err != nil {
		fmt.Fprintf(os.Stderr, "profile shape: %v\n", err)
		os.Exit(1)
	}

	tpl, err := template.ParseFiles(filepath.Join("templates", "portfolio.html"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse tpl: %v\n", err)
		os.Exit(2)
	}

	data := struct {
		Name       string
		Headline   string
		Summary    string
		Skills     []string
		Experience []model.Experience
		Projects   []model.Project
		Education  []model.Education
		Links      []string
	}{
		Name:       profile.Meta.Name,
		Headline:   profile.Meta.Headline,
		Summary:    profile.Summary,
		Skills:     profile.Skills,
		Experience: profile.Experience,
		Projects:   profile.Projects,
		Education:  profile.Education,
		Links:      profile.Links,
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create out dir: %v\n", err)
		os.Exit(2)
	}
	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create out: %v\n", err)
		os.Exit(2)
	}
	defer f.Close()
	if err := tpl.Execute(f, data); err != nil {
		fmt.Fprintf(os.Stderr, "execute tpl: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s\n", out)
}
