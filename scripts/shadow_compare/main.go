// Command shadow_compare replays read requests against the legacy course
// service and this one, and reports status or body mismatches.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"go.uber.org/zap"
)

type target struct {
	Method   string          `json:"method"`
	Path     string          `json:"path"`
	Body     json.RawMessage `json:"body,omitempty"`
	Critical bool            `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

type endpoint struct {
	name string
	base string
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		timeout     time.Duration
		ignoreLinks bool
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:8000", "Legacy API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.BoolVar(&ignoreLinks, "ignore-links", false, "Drop links/_links before comparing bodies")
	flag.Parse()

	logr, _ := zap.NewDevelopment()
	defer logr.Sync() //nolint:errcheck

	targets, err := loadTargets(targetsPath)
	if err != nil {
		logr.Fatal("failed to load targets", zap.String("path", targetsPath), zap.Error(err))
	}

	client := &http.Client{Timeout: timeout}
	goSide := endpoint{name: "go", base: goBase}
	legacySide := endpoint{name: "legacy", base: legacyBase}

	var comparisons []comparison
	breaking, optional := 0, 0
	for _, tgt := range targets {
		comp := compareTarget(client, goSide, legacySide, tgt, ignoreLinks)
		if comp.Error != nil || !comp.StatusMatch || !comp.BodyMatch {
			if tgt.Critical {
				breaking++
			} else {
				optional++
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(os.Stdout, comparisons)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func compareTarget(client *http.Client, goSide, legacySide endpoint, tgt target, ignoreLinks bool) comparison {
	comp := comparison{Target: tgt}

	goStatus, goBody, goDur, err := fetch(client, goSide, tgt)
	comp.DurationGo = goDur
	if err != nil {
		comp.Error = err
		return comp
	}
	legacyStatus, legacyBody, legacyDur, err := fetch(client, legacySide, tgt)
	comp.DurationLegacy = legacyDur
	if err != nil {
		comp.Error = err
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus
	comp.BodyMatch = bodiesEqual(goBody, legacyBody, goSide.base, legacySide.base, ignoreLinks)
	return comp
}

func fetch(client *http.Client, side endpoint, tgt target) (int, []byte, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if len(tgt.Body) > 0 {
		body = bytes.NewReader(tgt.Body)
	}
	req, err := http.NewRequest(method, strings.TrimRight(side.base, "/")+path, body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("%s request: %w", side.name, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("%s request failed: %w", side.name, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read %s body: %w", side.name, err)
	}
	return resp.StatusCode, payload, time.Since(start), nil
}

// bodiesEqual compares JSON bodies after replacing each side's base URL in
// string values so absolute hrefs line up.
func bodiesEqual(a, b []byte, baseA, baseB string, ignoreLinks bool) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	aj = normalize(aj, strings.TrimRight(baseA, "/"), ignoreLinks)
	bj = normalize(bj, strings.TrimRight(baseB, "/"), ignoreLinks)
	return reflect.DeepEqual(aj, bj)
}

func normalize(v interface{}, base string, ignoreLinks bool) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, item := range val {
			if ignoreLinks && (k == "links" || k == "_links") {
				delete(val, k)
				continue
			}
			val[k] = normalize(item, base, ignoreLinks)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = normalize(item, base, ignoreLinks)
		}
		return val
	case string:
		if base != "" && strings.HasPrefix(val, base) {
			return strings.TrimPrefix(val, base)
		}
		return val
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
		return val
	default:
		return val
	}
}

func printReport(w io.Writer, results []comparison) {
	fmt.Fprintln(w, "Shadow Compare Report")
	fmt.Fprintln(w, "======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Fprintf(w, "  Go Status: %d (%s)\n", res.GoStatus, res.DurationGo)
		fmt.Fprintf(w, "  Legacy Status: %d (%s)\n", res.LegacyStatus, res.DurationLegacy)
		if res.Error != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
			continue
		}
		fmt.Fprintf(w, "  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
	}
}
