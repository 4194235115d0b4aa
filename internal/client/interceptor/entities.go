package interceptor

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/iudanet/courtside/internal/models"
	"github.com/iudanet/courtside/pkg/api"
)

// resourcePath splits "<prefix><collection>[/<id>]" into its parts.
// ok is false when the first segment is not an entity collection.
func resourcePath(prefix, path string) (collection models.Collection, id string, ok bool) {
	rest, found := strings.CutPrefix(path, prefix)
	if !found {
		return "", "", false
	}

	segments := strings.Split(strings.Trim(rest, "/"), "/")
	if len(segments) == 0 || len(segments) > 2 {
		return "", "", false
	}

	collection, ok = models.ParseCollection(segments[0])
	if !ok {
		return "", "", false
	}
	if len(segments) == 2 {
		id = segments[1]
	}
	return collection, id, true
}

// extractEntities превращает тело успешного ответа в снимки сущностей:
// один объект с id или массив объектов с id.
func extractEntities(collection models.Collection, pathID string, body []byte, sourceURL string, fetchedAt time.Time) []*models.CachedEntity {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}

	newEntity := func(id string, data json.RawMessage) *models.CachedEntity {
		return &models.CachedEntity{
			FetchedAt:  fetchedAt,
			Collection: collection,
			ID:         id,
			SourceURL:  sourceURL,
			Data:       append(json.RawMessage(nil), data...),
		}
	}

	switch body[0] {
	case '{':
		id := objectID(body)
		if id == "" {
			id = pathID
		}
		if id == "" {
			return nil
		}
		return []*models.CachedEntity{newEntity(id, body)}

	case '[':
		// Список доступен только для коллекции целиком
		if pathID != "" {
			return nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil
		}
		entities := make([]*models.CachedEntity, 0, len(items))
		for _, item := range items {
			if id := objectID(item); id != "" {
				entities = append(entities, newEntity(id, item))
			}
		}
		return entities
	}

	return nil
}

func objectID(raw json.RawMessage) string {
	var obj api.CreatedResponse
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	return obj.ServerID()
}
