package graph

import (
	"errors"

	"github.com/graphql-go/graphql"
	"github.com/rdlima/go-auth-api/internal/auth"
	"github.com/rdlima/go-auth-api/internal/services"
)

// Resolver errors surfaced to GraphQL clients. Anything else coming out of
// the service layer is an internal failure.
var (
	errAuthRequired = errors.New("authentication required")
	errUserNotFound = errors.New("user not found")
)

// NewSchema builds the executable schema over the given user service.
// Resolvers read the authenticated user from the execution context; the
// entry point never blocks unauthenticated requests outright, so each
// protected field enforces auth itself. Note the asymmetry kept from the
// API contract: me resolves to null without auth, users/user error out.
func NewSchema(service services.UserServiceProvider) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.DateTime)},
		},
	})

	userPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "UserPayload",
		Fields: graphql.Fields{
			"user":   &graphql.Field{Type: userType},
			"errors": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type:        userType,
				Description: "Profile of the authenticated user, or null when unauthenticated",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user := auth.FromContext(p.Context)
					if user == nil {
						return nil, nil
					}
					return *user, nil
				},
			},
			"users": &graphql.Field{
				Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(userType))),
				Description: "All users (requires authentication)",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if auth.FromContext(p.Context) == nil {
						return nil, errAuthRequired
					}
					return service.ListUsers()
				},
			},
			"user": &graphql.Field{
				Type:        userType,
				Description: "A single user by ID (requires authentication)",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if auth.FromContext(p.Context) == nil {
						return nil, errAuthRequired
					}
					id, _ := p.Args["id"].(string)
					user, err := service.GetUserByID(id)
					if err != nil {
						if errors.Is(err, services.ErrNotFound) {
							return nil, errUserNotFound
						}
						return nil, err
					}
					return user, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"userCreate": &graphql.Field{
				Type: userPayloadType,
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if auth.FromContext(p.Context) == nil {
						return nil, errAuthRequired
					}
					email, _ := p.Args["email"].(string)
					password, _ := p.Args["password"].(string)

					user, err := service.CreateUser(email, password)
					if err != nil {
						var verrs services.ValidationErrors
						if errors.As(err, &verrs) {
							return payload(nil, verrs), nil
						}
						return nil, err
					}
					return payload(user, nil), nil
				},
			},
			"userUpdate": &graphql.Field{
				Type: userPayloadType,
				Args: graphql.FieldConfigArgument{
					"id":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"email":    &graphql.ArgumentConfig{Type: graphql.String},
					"password": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if auth.FromContext(p.Context) == nil {
						return nil, errAuthRequired
					}
					id, _ := p.Args["id"].(string)
					email, _ := p.Args["email"].(string)
					password, _ := p.Args["password"].(string)

					user, err := service.UpdateUser(id, email, password)
					if err != nil {
						if errors.Is(err, services.ErrNotFound) {
							return nil, errUserNotFound
						}
						var verrs services.ValidationErrors
						if errors.As(err, &verrs) {
							return payload(nil, verrs), nil
						}
						return nil, err
					}
					return payload(user, nil), nil
				},
			},
			"userDelete": &graphql.Field{
				Type: userPayloadType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if auth.FromContext(p.Context) == nil {
						return nil, errAuthRequired
					}
					id, _ := p.Args["id"].(string)

					user, err := service.GetUserByID(id)
					if err != nil {
						if errors.Is(err, services.ErrNotFound) {
							return nil, errUserNotFound
						}
						return nil, err
					}
					if err := service.DeleteUser(id); err != nil {
						if errors.Is(err, services.ErrNotFound) {
							return nil, errUserNotFound
						}
						return nil, err
					}
					return payload(user, nil), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// payload builds a mutation result in the {user, errors} shape.
func payload(user interface{}, verrs services.ValidationErrors) map[string]interface{} {
	errs := []string{}
	if verrs != nil {
		errs = []string(verrs)
	}
	return map[string]interface{}{
		"user":   user,
		"errors": errs,
	}
}
