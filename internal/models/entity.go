package models

import (
	"encoding/json"
	"time"
)

// Collection именованная коллекция локального хранилища
type Collection string

// Коллекции кэшированных серверных сущностей
const (
	CollectionGames         Collection = "games"
	CollectionShots         Collection = "shots"
	CollectionEvents        Collection = "events"
	CollectionSubstitutions Collection = "substitutions"
	CollectionTeams         Collection = "teams"
	CollectionPlayers       Collection = "players"
)

// CollectionSyncQueue holds QueuedAction records keyed by action id.
const CollectionSyncQueue Collection = "syncQueue"

// EntityCollections lists every collection that stores CachedEntity records.
var EntityCollections = []Collection{
	CollectionGames,
	CollectionShots,
	CollectionEvents,
	CollectionSubstitutions,
	CollectionTeams,
	CollectionPlayers,
}

// ParseCollection returns the entity collection with the given name.
func ParseCollection(name string) (Collection, bool) {
	for _, c := range EntityCollections {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// CachedEntity снимок серверного ресурса, сохраненный при успешном запросе.
// Перезаписывается при каждом успешном получении ресурса.
type CachedEntity struct {
	FetchedAt  time.Time       `json:"fetched_at"`
	Collection Collection      `json:"collection"`
	ID         string          `json:"id"`         // идентификатор, выданный сервером
	SourceURL  string          `json:"source_url"` // URL, по которому получен снимок
	Generation string          `json:"generation,omitempty"` // поколение кэша на момент получения
	Data       json.RawMessage `json:"data"`
}
