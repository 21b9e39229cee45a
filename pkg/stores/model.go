package stores

// Store is one storefront served by the deployment. Settings and carts are scoped by Store.ID.
type Store struct {
	ID   string // uuid
	Slug string // short name (acme)
	Host string // primary host (shop.acme.com)
	Name string // display name
}
