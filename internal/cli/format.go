package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/edvin/onboarding/internal/model"
)

// PrintJSON writes v indented.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintResult writes a human-readable summary of one onboarding run.
func PrintResult(w io.Writer, r *model.WorkflowResult) {
	status := "FAILED"
	if r.OverallSuccess {
		status = "SUCCESS"
	}
	fmt.Fprintf(w, "Run %s: %s\n", r.WorkflowID, status)

	f := r.ExtractedData
	fmt.Fprintf(w, "  Name:       %s\n", orDash(f.Name))
	fmt.Fprintf(w, "  Email:      %s\n", orDash(f.Email))
	fmt.Fprintf(w, "  Role:       %s\n", f.Role)
	fmt.Fprintf(w, "  Department: %s\n", f.Department)
	fmt.Fprintf(w, "  Confidence: %.0f%%\n", f.Confidence*100)
	if r.EmployeeID != "" {
		fmt.Fprintf(w, "  Employee:   %s\n", r.EmployeeID)
	}

	for _, s := range r.Steps {
		mark := "ok"
		if !s.Result.Success {
			mark = "FAILED"
		}
		fmt.Fprintf(w, "  Step %d  %-18s %-16s %s", s.Step, s.Service, s.Action, mark)
		if s.Result.Error != "" {
			fmt.Fprintf(w, " (%s)", s.Result.Error)
		}
		fmt.Fprintln(w)
	}

	if r.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", r.Error)
	}
}

// PrintFields writes an extraction result.
func PrintFields(w io.Writer, f *model.ExtractedFields) {
	fmt.Fprintf(w, "%-12s %s\n", "NAME", orDash(f.Name))
	fmt.Fprintf(w, "%-12s %s\n", "EMAIL", orDash(f.Email))
	fmt.Fprintf(w, "%-12s %s\n", "ROLE", f.Role)
	fmt.Fprintf(w, "%-12s %s\n", "DEPARTMENT", f.Department)
	fmt.Fprintf(w, "%-12s %.0f%%\n", "CONFIDENCE", f.Confidence*100)
}

func PrintEmployees(w io.Writer, employees []model.EmployeeRecord) {
	if len(employees) == 0 {
		fmt.Fprintln(w, "No employees.")
		return
	}
	fmt.Fprintf(w, "%-8s %-24s %-32s %-12s %s\n", "ID", "NAME", "EMAIL", "ROLE", "DEPARTMENT")
	for _, e := range employees {
		fmt.Fprintf(w, "%-8s %-24s %-32s %-12s %s\n", e.ID, e.Name, e.Email, e.Role, e.Department)
	}
}

func PrintAssets(w io.Writer, assets []model.Asset, totalCost float64) {
	if len(assets) == 0 {
		fmt.Fprintln(w, "No assets.")
		return
	}
	fmt.Fprintf(w, "%-8s %-14s %-8s %10s %s\n", "ID", "TYPE", "EMPLOYEE", "COST", "DELIVERY")
	for _, a := range assets {
		fmt.Fprintf(w, "%-8s %-14s %-8s %10.2f %s\n", a.ID, a.Type, a.AssignedTo, a.Cost, a.DeliveryDate.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "%d assets, total cost %.2f\n", len(assets), totalCost)
}

func PrintRuns(w io.Writer, runs []model.WorkflowResult) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs.")
		return
	}
	fmt.Fprintf(w, "%-38s %-10s %-8s %s\n", "RUN", "STATE", "EMPLOYEE", "INPUT")
	for _, r := range runs {
		fmt.Fprintf(w, "%-38s %-10s %-8s %s\n", r.WorkflowID, r.State, orDash(r.EmployeeID), truncate(r.Input, 60))
	}
}

func PrintHealth(w io.Writer, h *model.HealthReport) {
	fmt.Fprintf(w, "Status: %s\n", h.Status)
	for _, name := range []string{model.ServiceRecords, model.ServiceAssets, model.ServiceNotifications} {
		if status, ok := h.Services[name]; ok {
			fmt.Fprintf(w, "  %-18s %s\n", name, status)
		}
	}
}

// PrintEvent writes one progress event as a single line.
func PrintEvent(w io.Writer, ev model.ProgressEvent) {
	fmt.Fprintf(w, "[%3d%%] %-12s %s\n", ev.Progress, ev.Stage, ev.Message)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
