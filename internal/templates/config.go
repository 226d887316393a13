package templates

import "os"

const configTemplate = `
host: localhost
port: 8501
environment: dev
filesystem_type: local

model:
  name: resnet
  version: "1.0"
  handler: image_classifier
  checkpoint_source: https://download.pytorch.org/models/resnet18-f37072fd.pth
  labels_url: https://raw.githubusercontent.com/pytorch/serve/master/examples/image_classifier/index_to_name.json

backend:
  host: localhost
  inference_port: 8080
  management_port: 8081
  container_name: torchserve-workshop
  image: pytorch/torchserve:latest
  timeout_secs: 30

db:
  driver: sqlite
  dsn: file:bundles.db

# s3:
#   endpoint_url: "https://nyc3.digitaloceanspaces.com"
#   access_key: ""
#   secret_key: ""
#   region_name: "nyc3"
#   bucket_name: ""
#   folder: "model-store"
#   public_url: ""
`

const envTemplate = `# Secrets for the torchserve-workshop CLI.
# WORKSHOP_S3_ACCESS_KEY=
# WORKSHOP_S3_SECRET_KEY=
`

func GetConfigTemplate() string {
	return configTemplate
}

func WriteConfig(path string) error {
	return writeTemplate(path, configTemplate)
}

func WriteEnv(path string) error {
	return writeTemplate(path, envTemplate)
}

func writeTemplate(path string, content string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(content)
	return err
}
