// Package demo generates a seeded synthetic contact-center dataset and fits a
// linear trend to its daily ticket volume.
package demo

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/iwvelando/bpo-report/pkg/constants"
)

const dateLayout = "2006-01-02"

var (
	departments  = []string{"Billing", "Sales", "Customer Service", "Technical Support"}
	agentStatus  = []string{"active", "offline", "training", "break"}
	issueTypes   = []string{"Product Inquiry", "Billing Inquiry", "Service Complaint", "Technical Support", "Account Access"}
	ticketStatus = []string{"resolved", "pending", "open", "in-progress"}
)

// DefaultStart is the first day tickets can be created on.
var DefaultStart = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

// ticketWindowDays is the span over which ticket creation times are spread.
const ticketWindowDays = 23

// Agent is a synthetic contact-center agent.
type Agent struct {
	ID               int     `json:"agent_id" yaml:"agent_id"`
	Name             string  `json:"name" yaml:"name"`
	Department       string  `json:"department" yaml:"department"`
	PerformanceScore float64 `json:"performance_score" yaml:"performance_score"`
	Status           string  `json:"status" yaml:"status"`
	HireDate         string  `json:"hire_date" yaml:"hire_date"`
	AvgHandleTime    float64 `json:"avg_handle_time" yaml:"avg_handle_time"`
	TicketsResolved  int     `json:"tickets_resolved" yaml:"tickets_resolved"`
	CSAT             float64 `json:"csat_score" yaml:"csat_score"`
}

// Ticket is a synthetic support ticket. Pending tickets have no handle time
// and only resolved tickets carry a resolution time and CSAT feedback.
type Ticket struct {
	ID            string     `json:"ticket_id" yaml:"ticket_id"`
	CustomerName  string     `json:"customer_name" yaml:"customer_name"`
	IssueType     string     `json:"issue_type" yaml:"issue_type"`
	Priority      string     `json:"priority" yaml:"priority"`
	Status        string     `json:"status" yaml:"status"`
	CreatedAt     time.Time  `json:"created_date" yaml:"created_date"`
	ResolvedAt    *time.Time `json:"resolved_date" yaml:"resolved_date"`
	AssignedAgent int        `json:"assigned_agent" yaml:"assigned_agent"`
	HandleTime    *float64   `json:"handle_time" yaml:"handle_time"`
	CSAT          *float64   `json:"csat_feedback" yaml:"csat_feedback"`
}

// Options size the dataset. Zero values select the defaults.
type Options struct {
	Seed    uint64
	Agents  int
	Tickets int
	Start   time.Time
}

// Dataset is an immutable generated dataset.
type Dataset struct {
	Agents  []Agent  `json:"agents" yaml:"agents"`
	Tickets []Ticket `json:"tickets" yaml:"tickets"`
}

// Generate builds a dataset. The same options always yield the same data.
func Generate(opts Options) *Dataset {
	if opts.Agents <= 0 {
		opts.Agents = constants.DefaultDemoAgents
	}
	if opts.Tickets <= 0 {
		opts.Tickets = constants.DefaultDemoTickets
	}
	if opts.Start.IsZero() {
		opts.Start = DefaultStart
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5851f42d4c957f2d))

	agents := make([]Agent, 0, opts.Agents)
	for i := 1; i <= opts.Agents; i++ {
		hired := opts.Start.AddDate(0, 0, -(1 + rng.IntN(1460)))
		agents = append(agents, Agent{
			ID:               i,
			Name:             fmt.Sprintf("Agent %d", i),
			Department:       pick(rng, departments),
			PerformanceScore: clamp(round1(normal(rng, 80, 10)), 50, 100),
			Status:           pick(rng, agentStatus),
			HireDate:         hired.Format(dateLayout),
			AvgHandleTime:    math.Max(30, math.Round(normal(rng, 120, 60))),
			TicketsResolved:  30 + rng.IntN(31),
			CSAT:             clamp(round1(normal(rng, 4.2, 0.5)), 1, 5),
		})
	}

	tickets := make([]Ticket, 0, opts.Tickets)
	for i := 1; i <= opts.Tickets; i++ {
		created := opts.Start.
			AddDate(0, 0, rng.IntN(ticketWindowDays)).
			Add(time.Duration(rng.IntN(24)) * time.Hour).
			Add(time.Duration(rng.IntN(60)) * time.Minute)

		t := Ticket{
			ID:            fmt.Sprintf("TKT-%05d", i),
			CustomerName:  fmt.Sprintf("Customer %d", i),
			IssueType:     pick(rng, issueTypes),
			Priority:      priority(rng),
			Status:        pick(rng, ticketStatus),
			CreatedAt:     created,
			AssignedAgent: 1 + rng.IntN(opts.Agents),
		}
		if t.Status != "pending" {
			handle := math.Round(rng.ExpFloat64() * 90)
			t.HandleTime = &handle
		}
		if t.Status == "resolved" {
			resolved := created.Add(time.Duration(*t.HandleTime) * time.Minute)
			csat := clamp(round1(normal(rng, 4.1, 0.6)), 1, 5)
			t.ResolvedAt = &resolved
			t.CSAT = &csat
		}
		tickets = append(tickets, t)
	}

	return &Dataset{Agents: agents, Tickets: tickets}
}

// DailyVolume is the number of tickets created on one day.
type DailyVolume struct {
	Date    string `json:"date" yaml:"date"`
	Tickets int    `json:"tickets" yaml:"tickets"`
}

// DailyVolume counts tickets per creation day, including empty days between
// the first and last, in date order.
func (d *Dataset) DailyVolume() []DailyVolume {
	if len(d.Tickets) == 0 {
		return nil
	}

	counts := make(map[string]int)
	first, last := d.Tickets[0].CreatedAt, d.Tickets[0].CreatedAt
	for _, t := range d.Tickets {
		counts[t.CreatedAt.Format(dateLayout)]++
		if t.CreatedAt.Before(first) {
			first = t.CreatedAt
		}
		if t.CreatedAt.After(last) {
			last = t.CreatedAt
		}
	}

	day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, first.Location())
	end := last.Format(dateLayout)
	var volume []DailyVolume
	for {
		key := day.Format(dateLayout)
		volume = append(volume, DailyVolume{Date: key, Tickets: counts[key]})
		if key == end {
			break
		}
		day = day.AddDate(0, 0, 1)
	}
	return volume
}

// Trend fits a least-squares line to the daily ticket volume. Fewer than two
// days of data give a flat trend at the current volume.
func (d *Dataset) Trend() (Trend, error) {
	volume := d.DailyVolume()
	ys := make([]float64, len(volume))
	for i, v := range volume {
		ys[i] = float64(v.Tickets)
	}
	if len(ys) < 2 {
		return flatTrend(ys), nil
	}
	return Fit(ys)
}

func flatTrend(ys []float64) Trend {
	t := Trend{Days: len(ys), Direction: "flat"}
	if len(ys) > 0 {
		t.Intercept = ys[0]
		t.Current = ys[0]
		t.NextDay = ys[0]
	}
	return t
}

// TicketsByStatus counts tickets per status.
func (d *Dataset) TicketsByStatus() map[string]int {
	out := make(map[string]int, len(ticketStatus))
	for _, t := range d.Tickets {
		out[t.Status]++
	}
	return out
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

// priority draws low/medium/high with weights 0.3/0.5/0.2.
func priority(rng *rand.Rand) string {
	u := rng.Float64()
	switch {
	case u < 0.3:
		return "low"
	case u < 0.8:
		return "medium"
	default:
		return "high"
	}
}

func normal(rng *rand.Rand, mean, stddev float64) float64 {
	return rng.NormFloat64()*stddev + mean
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
