// Package testdomain defines sample ordering domain exercising the metamodel
package testdomain

import (
	"fmt"
	"github.com/viant/metamodel/interaction"
	"reflect"
)

// Entity is a supertype of persistent domain objects
type Entity struct {
	Code      string `property:"maxLength=12,named=Reference"`
	CreatedBy string `property:"disabled,disabledReason=System managed"`
}

type Customer struct {
	_      struct{} `domainObject:"plural=Clients,describedAs=Registered buyer"`
	Entity
	Name   string `property:"maxLength=40,named=Full Name"`
	Email  string `property:"mandatory,maxLength=80" meta:"Contact"`
	Phone  *string
	Locked bool `property:"hidden"`
	Orders []*Order
}

func (c *Customer) HideEmail(actor *interaction.Actor) bool {
	return !actor.HasRole("support")
}

func (c *Customer) DisableName() string {
	if c.Locked {
		return "Customer is locked"
	}
	return ""
}

func (c *Customer) Title() string {
	return c.Name
}

// PlaceOrder creates an order for the product
func (c *Customer) PlaceOrder(product *Product, quantity int) (*Order, error) {
	if product == nil {
		return nil, fmt.Errorf("product was nil")
	}
	order := &Order{Number: fmt.Sprintf("%v-%v", c.Code, len(c.Orders)+1), Lines: []*Line{{Product: product, Quantity: quantity}}}
	c.Orders = append(c.Orders, order)
	return order, nil
}

func (c *Customer) ValidatePlaceOrder(product *Product, quantity int) string {
	if quantity < 1 {
		return "Quantity has to be positive"
	}
	return ""
}

func (c *Customer) DisablePlaceOrder() string {
	if c.Locked {
		return "Customer is locked"
	}
	return ""
}

func (c *Customer) MemberTags() map[string]string {
	return map[string]string{
		"PlaceOrder":   `action:"semantics=nonIdempotent"`,
		"PlaceOrder#1": `parameter:"named=Quantity"`,
	}
}

type Order struct {
	Entity
	Number string `property:"maxLength=20"`
	Lines  []*Line
}

// Total sums line amounts
func (o *Order) Total() float64 {
	total := 0.0
	for _, line := range o.Lines {
		if line.Product != nil {
			total += line.Product.Price * float64(line.Quantity)
		}
	}
	return total
}

func (o *Order) MemberTags() map[string]string {
	return map[string]string{"Total": `property:"named=Order Total"`}
}

type Line struct {
	Product  *Product
	Quantity int
}

type Product struct {
	_     struct{} `domainObject:"editing=disabled"`
	Code  string   `property:"maxLength=12"`
	Price float64
}

// OrderArchive contributes archive action to Order
type OrderArchive struct{}

func (a *OrderArchive) Act() error {
	return nil
}

// Types returns sample domain types
func Types() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(Entity{}),
		reflect.TypeOf(Customer{}),
		reflect.TypeOf(Order{}),
		reflect.TypeOf(Line{}),
		reflect.TypeOf(Product{}),
	}
}

// Mixins returns sample domain mixins keyed by target type
func Mixins() map[reflect.Type][]reflect.Type {
	return map[reflect.Type][]reflect.Type{
		reflect.TypeOf(Order{}): {reflect.TypeOf(OrderArchive{})},
	}
}

// MetaAnnotations returns sample annotation bundles
func MetaAnnotations() map[string]string {
	return map[string]string{"Contact": "maxLength=60,describedAs=Contact detail"}
}
