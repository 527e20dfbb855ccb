package crd

import (
	"encoding/json"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
)

const intervalPattern = `^\d+[mhd]$`

type props = map[string]apiextensionsv1.JSONSchemaProps

func str(description string) apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{Type: "string", Description: description}
}

func interval(description string) apiextensionsv1.JSONSchemaProps {
	s := str(description)
	s.Pattern = intervalPattern
	return s
}

func boolean(description string) apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{Type: "boolean", Description: description}
}

func integer(description string, minimum float64) apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{Type: "integer", Format: "int64", Description: description, Minimum: &minimum}
}

func object(description string, properties props, required ...string) apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{Type: "object", Description: description, Properties: properties, Required: required}
}

func array(description string, items apiextensionsv1.JSONSchemaProps) apiextensionsv1.JSONSchemaProps {
	return apiextensionsv1.JSONSchemaProps{
		Type:        "array",
		Description: description,
		Items:       &apiextensionsv1.JSONSchemaPropsOrArray{Schema: &items},
	}
}

// opaque is an object whose fields aren't pruned.
func opaque(description string) apiextensionsv1.JSONSchemaProps {
	preserve := true
	return apiextensionsv1.JSONSchemaProps{Type: "object", Description: description, XPreserveUnknownFields: &preserve}
}

func root(spec, status apiextensionsv1.JSONSchemaProps) apiextensionsv1.JSONSchemaProps {
	return object("", props{
		"apiVersion": str("APIVersion defines the versioned schema of this representation of an object."),
		"kind":       str("Kind is a string value representing the REST resource this object represents."),
		"metadata":   {Type: "object"},
		"spec":       spec,
		"status":     status,
	})
}

func conditions() apiextensionsv1.JSONSchemaProps {
	status := str("Status of the condition, one of True, False, Unknown.")
	status.Enum = []apiextensionsv1.JSON{{Raw: mustJSON("True")}, {Raw: mustJSON("False")}, {Raw: mustJSON("Unknown")}}
	transition := str("Last time the condition transitioned from one status to another.")
	transition.Format = "date-time"
	return array("Conditions describing the current state.", object("", props{
		"type":               str("Type of the condition."),
		"status":             status,
		"reason":             str("Reason for the last transition in CamelCase."),
		"message":            str("Human readable message about the transition."),
		"lastTransitionTime": transition,
		"observedGeneration": integer("Generation the condition was set for.", 0),
	}, "type", "status", "reason", "message", "lastTransitionTime"))
}

func actions(description string) apiextensionsv1.JSONSchemaProps {
	action := func(description string) apiextensionsv1.JSONSchemaProps {
		return object(description, props{
			"pattern":   str("Regex pattern for the key's value."),
			"container": opaque("Container specification for external validation logic on the key."),
			"minimum":   integer("Minimum length for the key's value.", 0),
			"maximum":   integer("Maximum length for the key's value.", 1),
		})
	}
	return object(description, props{
		"create":   action("If the key isn't present, create it according to the specified pattern or logic."),
		"rotate":   action("Rotate the key according to the specified pattern or logic."),
		"validate": action("Validate the key according to the specified pattern or logic."),
	})
}

func secretSchema() apiextensionsv1.JSONSchemaProps {
	refresh := interval("Refresh interval for syncing the secret data, e.g. '3m' or '1h'.")
	refresh.Default = &apiextensionsv1.JSON{Raw: mustJSON("3m")}
	lastSync := str("Last time the secret was successfully synced.")
	lastSync.Format = "date-time"

	spec := object("CloudSecretSpec defines the desired state of CloudSecret.", props{
		"secretName":  str("Optional name for the Kubernetes Secret; if not provided, the CloudSecret name is used."),
		"description": str("Description of the secret."),
		"source": object("Configuration of the source for the secret data.", props{
			"name":     str("Identifier used in the source provider."),
			"provider": str("Name of the CloudSecretProvider to read from."),
		}, "name"),
		"strict": boolean("Whether the source secret must only contain the keys specified."),
		"keys": array("Optional list of keys and actions that can be applied to them.", object("", props{
			"name":           str("Name of the key in the source provider."),
			"targetName":     str("Optional new name to use in the Kubernetes Secret."),
			"description":    str("Description of the key."),
			"rotateInterval": interval("Rotation interval for this key, e.g. '90d'."),
			"actions":        actions("Actions to perform on the key."),
		}, "name")),
		"refreshInterval": refresh,
		"actions":         actions("Actions to perform on the secret keys. These actions apply to all the keys."),
	}, "source")

	status := object("CloudSecretStatus defines the observed state of CloudSecret.", props{
		"targetSecretName": str("Name of the managed Kubernetes Secret."),
		"conditions":       conditions(),
		"lastSyncTime":     lastSync,
		"versionId":        str("Version ID of the source secret."),
	})
	return root(spec, status)
}

func legacySecretSchema() apiextensionsv1.JSONSchemaProps {
	validation := object("", props{
		"regex":     str("Regex pattern for the key's value."),
		"container": opaque("Container specification for external validation logic on the key."),
	})
	config := array("Actions applied to the keys.", object("", props{
		"create":   validation,
		"rotate":   validation,
		"validate": validation,
	}))

	spec := object("CloudSecretSpec defines the desired state of CloudSecret.", props{
		"secret_name": str("Optional name for the Kubernetes Secret."),
		"source": object("Source of the secret data.", props{
			"key": str("Identifier used in the source provider."),
		}, "key"),
		"strict": boolean("Whether the source secret must only contain the keys specified."),
		"keys": array("Keys of the source secret.", object("", props{
			"name":            str("Name of the key in the source provider."),
			"rotate_interval": interval("Rotation interval, e.g. '90d'."),
			"config":          config,
		}, "name")),
		"refresh_interval": interval("Refresh interval, e.g. '1h' or '30m'."),
		"config":           config,
	}, "source")

	status := object("CloudSecretStatus defines the observed state of CloudSecret.", props{
		"conditions": array("Sync status rows.", object("", props{
			"synced":           boolean("Whether the last sync succeeded."),
			"version_id":       str("Version ID of the source secret."),
			"last_sync_time":   str("Last time the secret was successfully synced."),
			"last_update_time": str("Last time the row changed."),
			"message":          str("Human readable message."),
			"reason":           str("Reason of the row."),
		}, "synced", "last_update_time", "message", "reason")),
	})
	return root(spec, status)
}

func providerSchema() apiextensionsv1.JSONSchemaProps {
	spec := object("CloudSecretProviderSpec defines the desired state of CloudSecretProvider.", props{
		"description": str("Description of the provider."),
		"provider": object("Configuration for the secrets provider.", props{
			"awsSecretsManager": object("Configuration for AWS Secrets Manager.", props{
				"region": str("AWS region."),
				"auth": object("Optional authentication configuration for AWS.", props{
					"secretName": str("Optional name of the Kubernetes Secret containing the AWS credentials."),
					"irsa": object("Optional IRSA configuration.", props{
						"secretName": str("Name of the Kubernetes ServiceAccount to use for IRSA."),
						"roleArn":    str("ARN of the IAM role to assume."),
					}),
				}),
			}, "region"),
		}),
	}, "provider")

	status := object("CloudSecretProviderStatus defines the observed state of CloudSecretProvider.", props{
		"conditions": conditions(),
	})
	return root(spec, status)
}

func legacyProviderSchema() apiextensionsv1.JSONSchemaProps {
	spec := object("CloudSecretProviderSpec defines the desired state of CloudSecretProvider.", props{
		"provider": object("AWS Secrets Manager configuration.", props{
			"region": str("AWS region."),
			"auth": object("AWS credentials.", props{
				"secret_name": str("Name of the Kubernetes Secret holding AWS credentials."),
			}),
		}, "region", "auth"),
	}, "provider")

	status := object("CloudSecretProviderStatus defines the observed state of CloudSecretProvider.", props{
		"conditions": array("Readiness rows.", object("", props{
			"ready":            boolean("Whether the provider is ready."),
			"last_update_time": str("Last time the row changed."),
			"message":          str("Human readable message."),
			"reason":           str("Reason of the row."),
		}, "ready", "last_update_time", "message", "reason")),
	})
	return root(spec, status)
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
