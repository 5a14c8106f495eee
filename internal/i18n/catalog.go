// Package i18n holds the English and French message catalogs.
package i18n

import (
	"sync"

	"golang.org/x/text/language"
)

// Key identifies a message.
type Key string

const (
	AppTitle Key = "app.title"

	AuthLogin    Key = "auth.login"
	AuthUsername Key = "auth.username"
	AuthPassword Key = "auth.password"
	AuthSubmit   Key = "auth.submit"
	AuthLogout   Key = "auth.logout"
	// SessionExpired tells a CLI user to log in again.
	SessionExpired Key = "auth.sessionExpired"
	AuthSignedIn   Key = "auth.signedIn"
	AuthAnonymous  Key = "auth.anonymous"
	RegisterDone   Key = "auth.registerDone"
	RegisterFailed Key = "auth.registerFailed"

	ValidationUsernameRequired Key = "validation.usernameRequired"
	ValidationPasswordMin      Key = "validation.passwordMin"
	ValidationNameMin          Key = "validation.nameMin"
	ValidationPriceMin         Key = "validation.priceMin"
	ValidationQuantityMin      Key = "validation.quantityMin"
	ValidationEmailInvalid     Key = "validation.emailInvalid"

	ToastServerUnreachable  Key = "toast.serverUnreachable"
	ToastAccessDenied       Key = "toast.accessDenied"
	ToastInvalidCredentials Key = "toast.invalidCredentials"

	ProductsTitle       Key = "products.title"
	ProductsEmpty       Key = "products.empty"
	ProductsLoading     Key = "products.loading"
	ProductsLoadFailed  Key = "products.loadFailed"
	ProductName         Key = "products.name"
	ProductDescription  Key = "products.description"
	ProductPrice        Key = "products.price"
	ProductQuantity     Key = "products.quantity"
	ProductUpdated      Key = "products.updated"
	ProductNewTitle     Key = "products.newTitle"
	ProductEditTitle    Key = "products.editTitle"
	ProductNotFound     Key = "products.notFound"
	ProductCreated      Key = "products.created"
	ProductUpdatedToast Key = "products.updatedToast"
	ProductDeleted      Key = "products.deleted"
	ProductCreateFailed Key = "products.createFailed"
	ProductUpdateFailed Key = "products.updateFailed"
	ProductDeleteFailed Key = "products.deleteFailed"
	ConfirmDeleteTitle  Key = "products.confirmDelete"
	ConfirmDeleteBody   Key = "products.confirmDeleteBody"

	HelpLogin    Key = "help.login"
	HelpProducts Key = "help.products"
	HelpForm     Key = "help.form"
	HelpConfirm  Key = "help.confirm"
)

var messages = map[string]map[Key]string{
	"en": {
		AppTitle:                   "catalogdeck",
		AuthLogin:                  "Login",
		AuthUsername:               "Username",
		AuthPassword:               "Password",
		AuthSubmit:                 "Sign in",
		AuthLogout:                 "Logged out",
		SessionExpired:             "Session expired. Run `catalogdeck login` to sign in again.",
		AuthSignedIn:               "Signed in as %s",
		AuthAnonymous:              "Not signed in",
		RegisterDone:               "Account %s created",
		RegisterFailed:             "Registration failed",
		ValidationUsernameRequired: "Username is required",
		ValidationPasswordMin:      "Password must be at least 6 characters",
		ValidationNameMin:          "Name must be at least 2 characters",
		ValidationPriceMin:         "Price must be 0 or more",
		ValidationQuantityMin:      "Quantity must be a whole number, 0 or more",
		ValidationEmailInvalid:     "Email must be a valid address",
		ToastServerUnreachable:     "Server unreachable",
		ToastAccessDenied:          "Access denied",
		ToastInvalidCredentials:    "Invalid credentials",
		ProductsTitle:              "Products",
		ProductsEmpty:              "No products",
		ProductsLoading:            "Loading products...",
		ProductsLoadFailed:         "Could not load products",
		ProductName:                "Name",
		ProductDescription:         "Description",
		ProductPrice:               "Price",
		ProductQuantity:            "Quantity",
		ProductUpdated:             "Updated",
		ProductNewTitle:            "New product",
		ProductEditTitle:           "Edit product",
		ProductNotFound:            "Product not found",
		ProductCreated:             "Product created successfully",
		ProductUpdatedToast:        "Product updated successfully",
		ProductDeleted:             "Product deleted",
		ProductCreateFailed:        "Create product failed",
		ProductUpdateFailed:        "Update product failed",
		ProductDeleteFailed:        "Delete product failed",
		ConfirmDeleteTitle:         "Confirm deletion",
		ConfirmDeleteBody:          "Delete %q? This cannot be undone.",
		HelpLogin:                  "tab: next field  enter: sign in  ctrl+c: quit",
		HelpProducts:               "↑/↓: navigate  n: new  e: edit  d: delete  ctrl+r: refresh  t: language  L: logout  q: quit",
		HelpForm:                   "tab: next field  enter: save  esc: back",
		HelpConfirm:                "y: delete  n/esc: cancel",
	},
	"fr": {
		AppTitle:                   "catalogdeck",
		AuthLogin:                  "Connexion",
		AuthUsername:               "Nom d'utilisateur",
		AuthPassword:               "Mot de passe",
		AuthSubmit:                 "Se connecter",
		AuthLogout:                 "Déconnecté",
		SessionExpired:             "Session expirée. Lancez `catalogdeck login` pour vous reconnecter.",
		AuthSignedIn:               "Connecté en tant que %s",
		AuthAnonymous:              "Non connecté",
		RegisterDone:               "Compte %s créé",
		RegisterFailed:             "Échec de l'inscription",
		ValidationUsernameRequired: "Le nom d'utilisateur est requis",
		ValidationPasswordMin:      "Le mot de passe doit contenir au moins 6 caractères",
		ValidationNameMin:          "Le nom doit contenir au moins 2 caractères",
		ValidationPriceMin:         "Le prix doit être supérieur ou égal à 0",
		ValidationQuantityMin:      "La quantité doit être un entier supérieur ou égal à 0",
		ValidationEmailInvalid:     "L'adresse e-mail est invalide",
		ToastServerUnreachable:     "Serveur injoignable",
		ToastAccessDenied:          "Accès refusé",
		ToastInvalidCredentials:    "Identifiants invalides",
		ProductsTitle:              "Produits",
		ProductsEmpty:              "Aucun produit",
		ProductsLoading:            "Chargement des produits...",
		ProductsLoadFailed:         "Impossible de charger les produits",
		ProductName:                "Nom",
		ProductDescription:         "Description",
		ProductPrice:               "Prix",
		ProductQuantity:            "Quantité",
		ProductUpdated:             "Modifié",
		ProductNewTitle:            "Nouveau produit",
		ProductEditTitle:           "Modifier le produit",
		ProductNotFound:            "Produit introuvable",
		ProductCreated:             "Produit créé avec succès",
		ProductUpdatedToast:        "Produit mis à jour avec succès",
		ProductDeleted:             "Produit supprimé",
		ProductCreateFailed:        "Échec de création du produit",
		ProductUpdateFailed:        "Échec de mise à jour du produit",
		ProductDeleteFailed:        "Échec de suppression du produit",
		ConfirmDeleteTitle:         "Confirmer la suppression",
		ConfirmDeleteBody:          "Supprimer %q ? Cette action est irréversible.",
		HelpLogin:                  "tab : champ suivant  entrée : se connecter  ctrl+c : quitter",
		HelpProducts:               "↑/↓ : naviguer  n : nouveau  e : modifier  d : supprimer  ctrl+r : rafraîchir  t : langue  L : déconnexion  q : quitter",
		HelpForm:                   "tab : champ suivant  entrée : enregistrer  esc : retour",
		HelpConfirm:                "y : supprimer  n/esc : annuler",
	},
}

var supported = []language.Tag{language.English, language.French}

var matcher = language.NewMatcher(supported)

// Match maps any BCP 47 tag ("fr-CA", "en_US", "de") onto a supported
// language code. Unsupported input falls back to "en".
func Match(lang string) string {
	tag, _ := language.MatchStrings(matcher, lang)
	base, _ := tag.Base()
	if base.String() == "fr" {
		return "fr"
	}
	return "en"
}

// Catalog translates keys in the active language. It is safe for concurrent use.
type Catalog struct {
	mu   sync.RWMutex
	lang string
}

// New creates a Catalog for lang.
func New(lang string) *Catalog {
	return &Catalog{lang: Match(lang)}
}

// T returns the message for key. Missing French entries fall back to English,
// and unknown keys render as the key itself.
func (c *Catalog) T(key Key) string {
	c.mu.RLock()
	lang := c.lang
	c.mu.RUnlock()
	if s, ok := messages[lang][key]; ok {
		return s
	}
	if s, ok := messages["en"][key]; ok {
		return s
	}
	return string(key)
}

// Lang returns the active language code.
func (c *Catalog) Lang() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lang
}

// SetLang switches the active language.
func (c *Catalog) SetLang(lang string) {
	c.mu.Lock()
	c.lang = Match(lang)
	c.mu.Unlock()
}

// Toggle flips between English and French and returns the new code.
func (c *Catalog) Toggle() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lang == "en" {
		c.lang = "fr"
	} else {
		c.lang = "en"
	}
	return c.lang
}
