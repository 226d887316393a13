package config

import "errors"

const (
	DefaultWorkshopHome = "~/.torchserve-workshop"

	DefaultFrontendPort   = 8501
	DefaultInferencePort  = 8080
	DefaultManagementPort = 8081

	DefaultModelName    = "resnet"
	DefaultModelVersion = "1.0"
	DefaultHandler      = "image_classifier"

	DefaultContainerName = "torchserve-workshop"
	DefaultBackendImage  = "pytorch/torchserve:latest"
	DefaultTimeoutSecs   = 30

	// ResNet-18 weights published by torchvision, plus the ImageNet
	// index-to-name table shipped with the serve examples.
	DefaultCheckpointURL = "https://download.pytorch.org/models/resnet18-f37072fd.pth"
	DefaultLabelsURL     = "https://raw.githubusercontent.com/pytorch/serve/master/examples/image_classifier/index_to_name.json"
)

var ErrWorkshopHomeExpandFailed = errors.New("failed to expand workshop home directory")
