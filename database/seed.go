package database

import (
	"fmt"
	"log"

	"github.com/gemsmart/museumbackend/models"
	"github.com/gemsmart/museumbackend/repository"
	"github.com/gemsmart/museumbackend/services"
)

// defaultRooms are created on an empty database so a fresh deployment has
// galleries to scan into immediately.
var defaultRooms = []models.Room{
	{Name: "Ancient Egypt Gallery", Description: strPtr("Artifacts from the Old, Middle and New Kingdoms")},
	{Name: "Royal Mummies Hall", Description: strPtr("The royal mummies collection")},
	{Name: "Grand Entrance", Description: strPtr("Main atrium and orientation hall")},
}

// SeedDefaults populates rooms and the winner badge when missing. Safe to
// run on every startup.
func SeedDefaults(rooms repository.RoomRepository, badges repository.BadgeRepository) error {
	count, err := rooms.Count()
	if err != nil {
		return fmt.Errorf("failed to count rooms during seeding: %w", err)
	}
	if count == 0 {
		for i := range defaultRooms {
			room := defaultRooms[i]
			if err := rooms.Create(&room); err != nil {
				return fmt.Errorf("failed to seed room %q: %w", room.Name, err)
			}
			log.Printf("seed: created room %q (ID %d)", room.Name, room.ID)
		}
	}

	if _, err := badges.GetByName(services.WinnerBadgeName); err != nil {
		badge := models.Badge{Name: services.WinnerBadgeName}
		if err := badges.Create(&badge); err != nil {
			return fmt.Errorf("failed to seed badge %q: %w", badge.Name, err)
		}
		log.Printf("seed: created badge %q (ID %d)", badge.Name, badge.ID)
	}

	return nil
}

func strPtr(s string) *string { return &s }
