package memory

import (
	"fmt"
	"os"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML fixture that populates the in-memory directory and leave store.
type Seed struct {
	Users []struct {
		ID     string `yaml:"id"`
		Name   string `yaml:"name"`
		Email  string `yaml:"email"`
		Role   string `yaml:"role"`
		Status string `yaml:"status"`
	} `yaml:"users"`
	Leaves []struct {
		ID        string `yaml:"id"`
		UserID    string `yaml:"user_id"`
		Type      string `yaml:"type"`
		StartDate string `yaml:"start_date"`
		EndDate   string `yaml:"end_date"`
		Status    string `yaml:"status"`
	} `yaml:"leaves"`
}

func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("unmarshal seed file: %w", err)
	}
	return seed, nil
}

// Apply copies the seed into the given stores.
func (s Seed) Apply(users *UserDirectory, leaves *LeaveStore) {
	for _, u := range s.Users {
		role := user.Role(u.Role)
		if role == "" {
			role = user.RoleEmployee
		}
		status := user.Status(u.Status)
		if status == "" {
			status = user.StatusActive
		}
		users.Put(user.User{ID: u.ID, Name: u.Name, Email: u.Email, Role: role, Status: status})
	}
	for _, l := range s.Leaves {
		status := leave.Status(l.Status)
		if status == "" {
			status = leave.StatusPending
		}
		leaves.Add(leave.Interval{
			ID:        l.ID,
			UserID:    l.UserID,
			Type:      leave.Type(l.Type),
			StartDate: l.StartDate,
			EndDate:   l.EndDate,
			Status:    status,
		})
	}
}
