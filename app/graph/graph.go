// Package graph exposes a read-only GraphQL view of the catalog at /graphql.
// It covers products and categories for storefront integrations that prefer
// one round trip over the REST endpoints; all writes stay on the admin API.
package graph

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/dkrylov/camshop/app/models"
	"github.com/dkrylov/camshop/app/repositories"
	"github.com/dkrylov/camshop/app/services"
	"github.com/dkrylov/camshop/pkg/logger"
)

var specValueType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SpecificationValue",
	Fields: graphql.Fields{
		"name": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.ProductSpecification).Specification.Name, nil
			},
		},
		"slug": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.ProductSpecification).Specification.Slug, nil
			},
		},
		"value": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(models.ProductSpecification).Value, nil
			},
		},
	},
})

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":   field(graphql.Int, func(c models.Category) interface{} { return c.ID }),
		"name": field(graphql.String, func(c models.Category) interface{} { return c.Name }),
		"slug": field(graphql.String, func(c models.Category) interface{} { return c.Slug }),
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":        pfield(graphql.Int, func(p models.Product) interface{} { return p.ID }),
		"name":      pfield(graphql.String, func(p models.Product) interface{} { return p.Name }),
		"slug":      pfield(graphql.String, func(p models.Product) interface{} { return p.Slug }),
		"sku":       pfield(graphql.String, func(p models.Product) interface{} { return p.SKU }),
		"price":     pfield(graphql.Float, func(p models.Product) interface{} { return p.Price }),
		"inStock":   pfield(graphql.Boolean, func(p models.Product) interface{} { return p.InStock }),
		"isHit":     pfield(graphql.Boolean, func(p models.Product) interface{} { return p.IsHit }),
		"mainImage": pfield(graphql.String, func(p models.Product) interface{} { return p.MainImage }),
		"category": &graphql.Field{
			Type: categoryType,
			Resolve: func(rp graphql.ResolveParams) (interface{}, error) {
				return rp.Source.(models.Product).Category, nil
			},
		},
		"specifications": &graphql.Field{
			Type: graphql.NewList(specValueType),
			Resolve: func(rp graphql.ResolveParams) (interface{}, error) {
				return rp.Source.(models.Product).Specifications, nil
			},
		},
	},
})

func field(t graphql.Output, get func(models.Category) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return get(p.Source.(models.Category)), nil
		},
	}
}

func pfield(t graphql.Output, get func(models.Product) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return get(p.Source.(models.Product)), nil
		},
	}
}

// NewSchema builds the catalog query schema.
func NewSchema() (graphql.Schema, error) {
	catalog := services.NewCatalogService()
	products := services.NewProductService()
	categories := services.NewCategoryService()

	root := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"category": &graphql.ArgumentConfig{Type: graphql.Int},
					"page":     &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := repositories.ProductFilter{}
					if s, ok := p.Args["search"].(string); ok {
						f.Search = s
					}
					if c, ok := p.Args["category"].(int); ok {
						f.CategoryID = uint(c)
					}
					if n, ok := p.Args["page"].(int); ok {
						f.Page = n
					}
					if n, ok := p.Args["limit"].(int); ok {
						f.Limit = n
					}
					items, _, err := catalog.Products(f)
					return items, err
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return products.FindBySlug(p.Args["slug"].(string))
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return categories.All()
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: root})
}

// Handler returns the POST /graphql endpoint.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid GraphQL request", http.StatusBadRequest)
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  body.Query,
			VariableValues: body.Variables,
			Context:        r.Context(),
		})
		if len(result.Errors) > 0 {
			logger.WithCtx(r.Context()).Warn("graphql: query errors", "errors", result.Errors)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}
}
