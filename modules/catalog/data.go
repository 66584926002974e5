package catalog

// Fixture data served by the read-only routes. Handlers return copies so the
// shaper never sees a map another request could be reading.

var items = map[string]map[string]any{
	"foo": {"name": "Foo", "price": 50.2},
	"bar": {"name": "Bar", "description": "The bartenders", "price": 62, "tax": 20.2},
	"baz": {"name": "Baz", "description": nil, "price": 50.2, "tax": 10.5, "tags": []any{}},
	"baz2": {
		"name":        "Baz2",
		"description": "There goes my baz",
		"price":       50.2,
		"tax":         10.5,
	},
}

var items2 = []map[string]any{
	{"name": "Foo", "description": "There comes my hero"},
	{"name": "Red", "description": "It's my aeroplane"},
}

// items3 entries match different variants of the vehicle union: item1 lacks
// size so only CarItem fits, item2 fits PlaneItem with its default type.
var items3 = map[string]map[string]any{
	"item1": {"description": "All my friends drive a low rider", "type": "car"},
	"item2": {
		"description": "Music is my aeroplane, it's my aeroplane",
		"size":        5,
	},
}

func lookup(src map[string]map[string]any, id string) (map[string]any, bool) {
	v, ok := src[id]
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out, true
}

// Item is the Go view of the Item model, decoded from a validated instance.
type Item struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       float64  `json:"price"`
	Tax         *float64 `json:"tax"`
	Tags        []string `json:"tags"`
}

// User is the Go view of the User model.
type User struct {
	Username string  `json:"username"`
	FullName *string `json:"full_name"`
}
