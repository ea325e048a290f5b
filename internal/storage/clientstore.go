// Package storage provides the file-backed client directory. It is the
// backend the rest of the system talks to: an existence probe, full and
// cached listings, and non-destructive creation of clients with their tasks.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/valter-silva-au/clientdeck/pkg/models"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by GetClient when no client has the given ID.
// Callers use it to distinguish absence from genuine lookup failures.
var ErrNotFound = errors.New("client not found")

// ClientFile represents the top-level structure of clients.yaml.
type ClientFile struct {
	Version string                   `yaml:"version"`
	Clients map[string]models.Client `yaml:"clients"`
}

// ClientStore defines the backend API for the client directory.
type ClientStore interface {
	// GetClients returns all clients, sorted by ID.
	GetClients() ([]models.Client, error)
	// GetClient returns the client with the given ID, or ErrNotFound.
	GetClient(id string) (*models.Client, error)
	// GetAllClients returns the authoritative full snapshot. It rereads
	// the store file so exports see writes from other processes.
	GetAllClients() ([]models.Client, error)
	// CreateClientWithTasks adds a new client with the given task list.
	// It never overwrites: creating an existing ID is an error.
	CreateClientWithTasks(client models.Client, tasks []models.Task) error
	// UpdateClient replaces the stored client with the same ID.
	UpdateClient(client models.Client) error
	Load() error
	Save() error
}

type fileClientStore struct {
	basePath string
	data     ClientFile
}

// NewClientStore creates a ClientStore backed by a clients.yaml file in the
// given base directory.
func NewClientStore(basePath string) ClientStore {
	return &fileClientStore{
		basePath: basePath,
		data: ClientFile{
			Version: "1.0",
			Clients: make(map[string]models.Client),
		},
	}
}

func (s *fileClientStore) filePath() string {
	return filepath.Join(s.basePath, "clients.yaml")
}

func (s *fileClientStore) GetClients() ([]models.Client, error) {
	clients := make([]models.Client, 0, len(s.data.Clients))
	for _, c := range s.data.Clients {
		clients = append(clients, c)
	}
	// CL IDs embed a millisecond timestamp, so ID order is creation order.
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].ID < clients[j].ID
	})
	return clients, nil
}

func (s *fileClientStore) GetClient(id string) (*models.Client, error) {
	client, exists := s.data.Clients[id]
	if !exists {
		return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return &client, nil
}

func (s *fileClientStore) GetAllClients() ([]models.Client, error) {
	if err := s.Load(); err != nil {
		return nil, fmt.Errorf("refreshing client snapshot: %w", err)
	}
	return s.GetClients()
}

func (s *fileClientStore) CreateClientWithTasks(client models.Client, tasks []models.Task) error {
	if client.ID == "" {
		return fmt.Errorf("creating client: ID must not be empty")
	}
	var missing []string
	if strings.TrimSpace(client.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(client.Company) == "" {
		missing = append(missing, "company")
	}
	if strings.TrimSpace(client.Origin) == "" {
		missing = append(missing, "origin")
	}
	if len(missing) > 0 {
		return fmt.Errorf("creating client %s: missing required field(s): %s",
			client.ID, strings.Join(missing, ", "))
	}
	if _, exists := s.data.Clients[client.ID]; exists {
		return fmt.Errorf("creating client: client %s already exists", client.ID)
	}

	client.Tasks = tasks
	s.data.Clients[client.ID] = client
	if err := s.Save(); err != nil {
		return fmt.Errorf("creating client %s: %w", client.ID, err)
	}
	return nil
}

func (s *fileClientStore) UpdateClient(client models.Client) error {
	if _, exists := s.data.Clients[client.ID]; !exists {
		return fmt.Errorf("updating client %s: %w", client.ID, ErrNotFound)
	}
	s.data.Clients[client.ID] = client
	if err := s.Save(); err != nil {
		return fmt.Errorf("updating client %s: %w", client.ID, err)
	}
	return nil
}

func (s *fileClientStore) Load() error {
	data, err := os.ReadFile(s.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			s.data = ClientFile{
				Version: "1.0",
				Clients: make(map[string]models.Client),
			}
			return nil
		}
		return fmt.Errorf("loading clients: %w", err)
	}

	var cf ClientFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("loading clients: parsing YAML: %w", err)
	}
	if cf.Clients == nil {
		cf.Clients = make(map[string]models.Client)
	}
	s.data = cf
	return nil
}

func (s *fileClientStore) Save() error {
	if err := os.MkdirAll(s.basePath, 0o750); err != nil {
		return fmt.Errorf("saving clients: creating directory: %w", err)
	}
	data, err := yaml.Marshal(&s.data)
	if err != nil {
		return fmt.Errorf("saving clients: marshaling YAML: %w", err)
	}
	if err := os.WriteFile(s.filePath(), data, 0o600); err != nil {
		return fmt.Errorf("saving clients: writing file: %w", err)
	}
	return nil
}
