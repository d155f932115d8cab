package repository

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gemsmart/museumbackend/models"
)

// MemoryRoomRepository is an in-memory RoomRepository.
type MemoryRoomRepository struct {
	mu     sync.RWMutex
	rooms  map[uint]models.Room
	nextID uint
}

func NewMemoryRoomRepository() *MemoryRoomRepository {
	return &MemoryRoomRepository{rooms: make(map[uint]models.Room), nextID: 1}
}

func (r *MemoryRoomRepository) Create(room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room.ID = r.nextID
	r.nextID++
	r.rooms[room.ID] = *room
	return nil
}

func (r *MemoryRoomRepository) GetByID(id uint) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "room", Ref: fmt.Sprint(id)}
	}
	return &room, nil
}

func (r *MemoryRoomRepository) ListAll() ([]models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rooms := make([]models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })
	return rooms, nil
}

func (r *MemoryRoomRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.rooms)), nil
}
