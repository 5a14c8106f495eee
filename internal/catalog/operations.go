package catalog

// Operation names sent as operationName. The fake API and the logs key on them.
const (
	OpPing          = "Ping"
	OpLogin         = "Login"
	OpRegister      = "Register"
	OpMe            = "Me"
	OpProducts      = "Products"
	OpProductByID   = "ProductByID"
	OpCreateProduct = "CreateProduct"
	OpUpdateProduct = "UpdateProduct"
	OpDeleteProduct = "DeleteProduct"
)

const productFields = `id name description price quantity createdAt updatedAt`

const (
	pingQuery = `query Ping { ping }`

	loginMutation = `mutation Login($username: String!, $password: String!) {
  login(username: $username, password: $password) { token user { id username role } }
}`

	registerMutation = `mutation Register($username: String!, $email: String!, $password: String!) {
  register(username: $username, email: $email, password: $password) { id username role }
}`

	meQuery = `query Me { me { id username role } }`

	productsQuery = `query Products { products { ` + productFields + ` } }`

	productByIDQuery = `query ProductByID($id: String!) { productById(id: $id) { ` + productFields + ` } }`

	createProductMutation = `mutation CreateProduct($input: ProductInput!) {
  createProduct(input: $input) { ` + productFields + ` }
}`

	updateProductMutation = `mutation UpdateProduct($id: String!, $input: ProductInput!) {
  updateProduct(id: $id, input: $input) { ` + productFields + ` }
}`

	deleteProductMutation = `mutation DeleteProduct($id: String!) { deleteProduct(id: $id) }`
)
