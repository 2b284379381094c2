package content

// WPGraphQL documents used by LiveSource.

const postFields = `
fragment PostFields on Post {
  id
  databaseId
  title
  slug
  excerpt
  date
  modified
  isSticky
  commentCount
  featuredImage {
    node {
      sourceUrl
      altText
      mediaDetails { width height }
    }
  }
  author { node { id name slug } }
  categories { nodes { id name slug } }
  tags { nodes { id name slug } }
}
`

const postsQuery = `
query Posts($first: Int!, $after: String, $category: String, $search: String) {
  posts(first: $first, after: $after, where: { categoryName: $category, search: $search, status: PUBLISH }) {
    pageInfo { hasNextPage hasPreviousPage startCursor endCursor }
    nodes { ...PostFields }
  }
}
` + postFields

const postBySlugQuery = `
query PostBySlug($slug: ID!) {
  post(id: $slug, idType: SLUG) {
    ...PostFields
    content
  }
}
` + postFields

const categoriesQuery = `
query Categories($first: Int!) {
  categories(first: $first) {
    nodes { id name slug description count }
  }
}
`

const categoryBySlugQuery = `
query CategoryBySlug($slug: ID!) {
  category(id: $slug, idType: SLUG) { id name slug description count }
}
`

const tagsQuery = `
query Tags($first: Int!) {
  tags(first: $first) {
    nodes { id name slug description count }
  }
}
`

const pageBySlugQuery = `
query PageBySlug($slug: ID!) {
  page(id: $slug, idType: URI) { id title slug content date }
}
`
