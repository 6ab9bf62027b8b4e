// Copyright 2025 The Classroom Authors, Inc.
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

package config

// Variable describes one setting without exposing its value.
type Variable struct {
	Present bool `json:"present"`
	Length  int  `json:"length"`
}

// EnvReport lists which deployment variables are set. Values are never
// included, only their presence and length.
type EnvReport struct {
	OK        bool                `json:"ok"`
	Missing   []string            `json:"missing"`
	Variables map[string]Variable `json:"variables"`
}

// EnvReport builds the report for the current configuration. The Supabase
// credentials are only required when the Supabase store is selected.
func (c *Config) EnvReport() *EnvReport {
	type entry struct {
		name     string
		value    string
		required bool
	}
	supabase := c.Store.Backend == StoreSupabase
	entries := []entry{
		{"SUPABASE_URL", c.Supabase.URL, supabase},
		{"SUPABASE_SERVICE_ROLE_KEY", c.Supabase.ServiceRoleKey, supabase},
		{"SESSION_SECRET", c.Session.Secret, true},
		{"TEACHER_PASSWORD", c.Teacher.Password, true},
		{"SUPABASE_ANON_KEY", c.Supabase.AnonKey, false},
	}

	report := &EnvReport{
		Missing:   []string{},
		Variables: make(map[string]Variable, len(entries)),
	}
	for _, e := range entries {
		v := Variable{Present: e.value != "", Length: len(e.value)}
		report.Variables[e.name] = v
		if e.required && !v.Present {
			report.Missing = append(report.Missing, e.name)
		}
	}
	report.OK = len(report.Missing) == 0
	return report
}
