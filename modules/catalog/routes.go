package catalog

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dmitrymomot/apikit/handler"
	"github.com/dmitrymomot/apikit/pkg/binder"
	"github.com/dmitrymomot/apikit/pkg/httperr"
	"github.com/dmitrymomot/apikit/pkg/schema"
)

func (s *Service) root(ctx handler.Context, args binder.Values) (any, error) {
	return map[string]string{"Hello": "World"}, nil
}

func (s *Service) readItems(ctx handler.Context, args binder.Values) (any, error) {
	out := schema.NewOrdered(6)
	out.Set("items", []map[string]string{{"item_id": "Foo"}, {"item_id": "Bar"}})
	out.Set("ads_id", args["ads_id"])
	out.Set("User-Agent", args["user_agent"])
	if args.Has("q") {
		out.Set("q", args.Strings("q"))
	}
	if args.Has("r") {
		out.Set("r", args.String("r"))
	}
	return out, nil
}

func (s *Service) createItem(ctx handler.Context, args binder.Values) (any, error) {
	return args.Instance("item"), nil
}

// createItemWithTax adds price_with_tax when the item carries a tax. The sum
// is computed in decimal so 35.4 + 3.2 stays 38.6.
func (s *Service) createItemWithTax(ctx handler.Context, args binder.Values) (any, error) {
	in := args.Instance("item")
	out := in.Ordered()

	var item Item
	if err := in.Decode(&item); err != nil {
		return nil, err
	}
	if item.Tax != nil {
		total, _ := decimal.NewFromFloat(item.Price).Add(decimal.NewFromFloat(*item.Tax)).Float64()
		out.Set("price_with_tax", total)
	}
	return out, nil
}

type readItemArgs struct {
	ItemID int     `bind:"item_id"`
	Query  *string `bind:"q"`
	Short  bool    `bind:"short"`
}

func (s *Service) readItem(ctx handler.Context, args binder.Values) (any, error) {
	var in readItemArgs
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	if in.ItemID == 3 {
		return nil, httperr.Abort(http.StatusTeapot, "Nope! I don't like 3.")
	}

	out := schema.NewOrdered(3)
	out.Set("item_id", in.ItemID)
	if in.Query != nil {
		out.Set("q", *in.Query)
	}
	if !in.Short {
		out.Set("description", "This is an amazing item that has a long description")
	}
	return out, nil
}

type updateItemArgs struct {
	ItemID int  `bind:"item_id"`
	Item   Item `bind:"item"`
}

func (s *Service) updateItem(ctx handler.Context, args binder.Values) (any, error) {
	var in updateItemArgs
	if err := args.Decode(&in); err != nil {
		return nil, err
	}
	out := schema.NewOrdered(2)
	out.Set("item_name", in.Item.Name)
	out.Set("item_id", in.ItemID)
	return out, nil
}

func (s *Service) updateItemOwner(ctx handler.Context, args binder.Values) (any, error) {
	out := schema.NewOrdered(3)
	out.Set("item_id", args.Int("item_id"))
	out.Set("item", args.Instance("item"))
	out.Set("user", args.Instance("user"))
	return out, nil
}

// readItemFixture serves the items fixture for the routes that differ only in
// their response directive.
func (s *Service) readItemFixture(ctx handler.Context, args binder.Values) (any, error) {
	item, ok := lookup(items, args.String("item_id"))
	if !ok {
		return nil, httperr.ErrNotFound.
			WithDetail("Item not found").
			WithHeader("X-Error", "There goes my error")
	}
	return item, nil
}

func (s *Service) readItems2(ctx handler.Context, args binder.Values) (any, error) {
	out := make([]any, len(items2))
	for i, it := range items2 {
		out[i] = it
	}
	return out, nil
}

func (s *Service) readItem3(ctx handler.Context, args binder.Values) (any, error) {
	item, ok := lookup(items3, args.String("item_id"))
	if !ok {
		return nil, httperr.ErrNotFound.WithDetail("Item not found")
	}
	return item, nil
}

func (s *Service) getModel(ctx handler.Context, args binder.Values) (any, error) {
	name := args.String("model_name")
	out := schema.NewOrdered(2)
	out.Set("model_name", name)
	switch name {
	case "alexnet":
		out.Set("message", "Deep Learning FTW!")
	case "lenet":
		out.Set("message", "LeCNN all the images")
	default:
		out.Set("message", "Have some residuals")
	}
	return out, nil
}

func (s *Service) createUser(ctx handler.Context, args binder.Values) (any, error) {
	in := args.Instance("user")
	if _, err := s.saveUser(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

func (s *Service) login(ctx handler.Context, args binder.Values) (any, error) {
	return map[string]string{"username": args.String("username")}, nil
}

func (s *Service) createFile(ctx handler.Context, args binder.Values) (any, error) {
	content := args.Bytes("file")
	if len(content) == 0 {
		return map[string]string{"message": "No file sent"}, nil
	}
	return map[string]int{"file_size": len(content)}, nil
}

func (s *Service) createUploadFile(ctx handler.Context, args binder.Values) (any, error) {
	file := args.Upload("file")
	if file == nil {
		return map[string]string{"message": "No upload file sent"}, nil
	}
	return map[string]string{"filename": file.Filename}, nil
}

func (s *Service) readUnicorn(ctx handler.Context, args binder.Values) (any, error) {
	name := args.String("name")
	if name == "yolo" {
		return nil, &UnicornError{Name: name}
	}
	return map[string]string{"unicorn_name": name}, nil
}

// queryNotification enqueues a notification for the query string before the
// route's own task, so it is written first.
func (s *Service) queryNotification(next handler.HandlerFunc) handler.HandlerFunc {
	return func(ctx handler.Context, args binder.Values) (any, error) {
		if args.Has("q") {
			message := "found query: " + args.String("q")
			if err := enqueueNotification(ctx.Tasks(), s.notifier, "a", message); err != nil {
				return nil, err
			}
		}
		return next(ctx, args)
	}
}

func (s *Service) sendNotification(ctx handler.Context, args binder.Values) (any, error) {
	email := args.String("email")
	if err := enqueueNotification(ctx.Tasks(), s.notifier, email, "message to "+email); err != nil {
		return nil, err
	}
	return map[string]string{"message": "Message sent"}, nil
}
