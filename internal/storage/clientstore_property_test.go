package storage

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/valter-silva-au/clientdeck/pkg/models"
)

func genStoredTask(t *rapid.T) models.Task {
	return models.Task{
		Date:        rapid.StringMatching(`20[0-9]{2}-(0[1-9]|1[0-2])-(0[1-9]|1[0-9]|2[0-8])`).Draw(t, "date"),
		Description: rapid.StringMatching(`[A-Za-z][A-Za-z0-9 .,-]{0,40}`).Draw(t, "description"),
		Status:      rapid.SampledFrom([]models.TaskStatus{models.StatusPending, models.StatusInProgress, models.StatusCompleted, models.StatusAwaitingClient}).Draw(t, "status"),
		Priority:    rapid.SampledFrom([]models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}).Draw(t, "priority"),
		SLADate:     rapid.SampledFrom([]string{"", "2026-03-10", "2026-04-01"}).Draw(t, "slaDate"),
	}
}

// TestClientStoreRoundTripProperty writes generated clients through one store
// instance and reads them back through a fresh one, checking that nothing is
// lost or reordered.
func TestClientStoreRoundTripProperty(tt *testing.T) {
	rapid.Check(tt, func(t *rapid.T) {
		basePath := tt.TempDir()

		n := rapid.IntRange(0, 10).Draw(t, "n")
		written := make(map[string]models.Client, n)

		store := NewClientStore(basePath)
		for i := 0; i < n; i++ {
			client := models.Client{
				ID:      rapid.StringMatching(`CL-[a-z0-9]{8}`).Draw(t, "id"),
				Name:    rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,20}`).Draw(t, "name"),
				Company: rapid.StringMatching(`[A-Za-z][A-Za-z ]{0,20}`).Draw(t, "company"),
				Origin:  rapid.SampledFrom([]string{"web", "referral", "event"}).Draw(t, "origin"),
			}
			if _, dup := written[client.ID]; dup {
				continue
			}
			tasks := make([]models.Task, rapid.IntRange(0, 3).Draw(t, "tasks"))
			for j := range tasks {
				tasks[j] = genStoredTask(t)
			}
			if err := store.CreateClientWithTasks(client, tasks); err != nil {
				t.Fatalf("creating %s: %v", client.ID, err)
			}
			client.Tasks = tasks
			written[client.ID] = client
		}

		reopened := NewClientStore(basePath)
		if err := reopened.Load(); err != nil {
			t.Fatalf("reloading: %v", err)
		}

		clients, err := reopened.GetClients()
		if err != nil {
			t.Fatalf("listing: %v", err)
		}
		if len(clients) != len(written) {
			t.Fatalf("round trip changed count: wrote %d, read %d", len(written), len(clients))
		}

		prev := ""
		for _, got := range clients {
			if got.ID <= prev && prev != "" {
				t.Fatalf("listing not sorted by ID: %q after %q", got.ID, prev)
			}
			prev = got.ID

			want := written[got.ID]
			if got.Name != want.Name || got.Company != want.Company || got.Origin != want.Origin {
				t.Fatalf("client %s fields changed: got %+v, want %+v", got.ID, got, want)
			}
			if len(got.Tasks) != len(want.Tasks) {
				t.Fatalf("client %s task count changed: %d != %d", got.ID, len(got.Tasks), len(want.Tasks))
			}
			for j := range got.Tasks {
				if got.Tasks[j] != want.Tasks[j] {
					t.Fatalf("client %s task %d changed: got %+v, want %+v", got.ID, j, got.Tasks[j], want.Tasks[j])
				}
			}
		}
	})
}
