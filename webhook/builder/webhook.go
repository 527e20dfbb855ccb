package builder

import (
	"net/http"
	"net/url"

	"sigs.k8s.io/controller-runtime/pkg/webhook"

	csadmission "github.com/darkowlzz/cloudsecret-operator/webhook/admission"
)

// Server is the part of the manager webhook server used by the Builder.
type Server interface {
	Register(path string, hook http.Handler)
}

// Builder builds the webhooks of a Controller.
type Builder struct {
	server       Server
	mux          *http.ServeMux
	mutatePath   string
	validatePath string
}

// WebhookManagedBy returns a Builder registering with the given server.
func WebhookManagedBy(server *webhook.Server) *Builder {
	return &Builder{server: server, mux: server.WebhookMux}
}

// WebhookFor returns a Builder registering with any Server. Paths already
// registered are not detected.
func WebhookFor(server Server) *Builder {
	return &Builder{server: server}
}

// MutatePath sets the path of the defaulting webhook. No defaulting webhook
// is registered when unset.
func (blder *Builder) MutatePath(path string) *Builder {
	blder.mutatePath = path
	return blder
}

// ValidatePath sets the path of the validating webhook. No validating
// webhook is registered when unset.
func (blder *Builder) ValidatePath(path string) *Builder {
	blder.validatePath = path
	return blder
}

// Complete registers the webhooks of c.
func (blder *Builder) Complete(c csadmission.Controller) error {
	if blder.mutatePath != "" {
		blder.register(c.Name(), blder.mutatePath, csadmission.DefaultingWebhookFor(c))
	}
	if blder.validatePath != "" {
		blder.register(c.Name(), blder.validatePath, csadmission.ValidatingWebhookFor(c))
	}
	return nil
}

func (blder *Builder) register(name, path string, hook http.Handler) {
	if blder.isAlreadyHandled(path) {
		log.Info("webhook path already registered, skipping registration", "controller", name, "path", path)
		return
	}
	log.Info("registering webhook", "controller", name, "path", path)
	blder.server.Register(path, hook)
}

// isAlreadyHandled checks if a webhook endpoint path is already registered.
func (blder *Builder) isAlreadyHandled(path string) bool {
	if blder.mux == nil {
		return false
	}
	h, p := blder.mux.Handler(&http.Request{URL: &url.URL{Path: path}})
	return p == path && h != nil
}
