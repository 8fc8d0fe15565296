package github

import "github.com/shurcooL/githubv4"

type repositoryNode struct {
	DatabaseID *int64 `graphql:"databaseId"`
	Name       string
	Owner      struct {
		Login string
	}
	StargazerCount int
	ForkCount      int
	Issues         struct {
		TotalCount int
	} `graphql:"issues(states: OPEN)"`
}

type rateLimit struct {
	Remaining int
	ResetAt   githubv4.DateTime
}

// searchRepositoriesQuery mirrors:
//
//	search(query: $query, type: REPOSITORY, first: $perPage, after: $cursor) {
//	  repositoryCount
//	  pageInfo { hasNextPage endCursor }
//	  edges { node { ... on Repository { databaseId name owner { login }
//	    stargazerCount forkCount issues(states: OPEN) { totalCount } } } }
//	}
//	rateLimit { remaining resetAt }
type searchRepositoriesQuery struct {
	Search struct {
		RepositoryCount int
		PageInfo        struct {
			HasNextPage bool
			EndCursor   githubv4.String
		}
		Edges []struct {
			Node struct {
				Repository repositoryNode `graphql:"... on Repository"`
			}
		}
	} `graphql:"search(query: $query, type: REPOSITORY, first: $perPage, after: $cursor)"`
	RateLimit rateLimit
}

type countRepositoriesQuery struct {
	Search struct {
		RepositoryCount int
	} `graphql:"search(query: $query, type: REPOSITORY, first: 1)"`
	RateLimit rateLimit
}
