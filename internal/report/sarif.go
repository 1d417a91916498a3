// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"

	"fillmore-labs.com/closeguard/internal/scan"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	toolName     = "javaguard"
	toolURI      = "https://github.com/fillmore-labs/closeguard"
)

// SARIFWriter writes the result as a SARIF 2.1.0 log.
type SARIFWriter struct {
	w io.Writer
}

// NewSARIFWriter creates a [SARIFWriter].
func NewSARIFWriter(w io.Writer) *SARIFWriter { return &SARIFWriter{w: w} }

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
}

func (s *SARIFWriter) Write(res *scan.Result) error {
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           toolName,
			InformationURI: toolURI,
			Rules: []sarifRule{{
				ID:               scan.Rule,
				Name:             scan.Rule,
				ShortDescription: sarifMessage{Text: "Channel opened but not safely closed"},
			}},
		}},
		Results: make([]sarifResult, 0, len(res.Findings)),
	}

	for _, f := range res.Findings {
		run.Results = append(run.Results, sarifResult{
			RuleID:  f.Rule,
			Level:   level(f.Severity),
			Message: sarifMessage{Text: f.Message},
			Locations: []sarifLocation{{PhysicalLocation: sarifPhysical{
				ArtifactLocation: sarifArtifact{URI: strings.TrimPrefix(filepath.ToSlash(f.Path), "/")},
				Region: sarifRegion{
					StartLine:   f.Line,
					StartColumn: f.Column,
					EndLine:     f.EndLine,
					EndColumn:   f.EndColumn,
				},
			}}},
		})
	}

	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")

	return enc.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}

func level(severity string) string {
	if severity == "error" {
		return "error"
	}

	return "warning"
}
