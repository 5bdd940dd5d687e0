package schema

// Project is the complete provisioning specification: one image build shared
// by every service, plus the service topology instantiated from it.
type Project struct {
	Name     string    `json:"name" yaml:"name" toml:"name"`
	Build    BuildSpec `json:"build" yaml:"build" toml:"build"`
	Services []Service `json:"services" yaml:"services" toml:"services"`

	// MountTargets is the closed set of container-side mount paths the
	// application code expects. Host paths vary per deployment host; the
	// container side never does.
	MountTargets []string `json:"mountTargets,omitempty" yaml:"mountTargets,omitempty" toml:"mountTargets,omitempty"`
}

// BuildSpec describes the image build: base image, the repository's own
// source tree, and the ordered package install list. Credentials are not part
// of the spec; they are environment bindings resolved per invocation.
type BuildSpec struct {
	BaseImage    string           `json:"baseImage" yaml:"baseImage" toml:"baseImage"`
	ImageTag     string           `json:"imageTag" yaml:"imageTag" toml:"imageTag"`
	SourceDir    string           `json:"sourceDir,omitempty" yaml:"sourceDir,omitempty" toml:"sourceDir,omitempty"`
	SourceTarget string           `json:"sourceTarget" yaml:"sourceTarget" toml:"sourceTarget"`
	Installs     []PackageInstall `json:"installs" yaml:"installs" toml:"installs"`
}

// InstallKind selects where a package install comes from.
type InstallKind string

const (
	// InstallCheckout clones a repository in the credential stage and
	// installs the copied working tree in editable mode.
	InstallCheckout InstallKind = "checkout"
	// InstallArchive installs directly from a pinned source-control
	// archive URL, no working copy involved.
	InstallArchive InstallKind = "archive"
)

// OwnerUser is the sentinel owner meaning "the authenticated user's account"
// rather than the organization selected by DEV_SOURCE. Used for fork-based
// development of individual packages.
const OwnerUser = "$user"

// PackageInstall is one element of the ordered install list. Order matters:
// later installs may override dependency versions pinned by earlier ones.
type PackageInstall struct {
	Name    string      `json:"name" yaml:"name" toml:"name"`
	Kind    InstallKind `json:"kind" yaml:"kind" toml:"kind"`
	Owner   string      `json:"owner,omitempty" yaml:"owner,omitempty" toml:"owner,omitempty"`
	Branch  string      `json:"branch,omitempty" yaml:"branch,omitempty" toml:"branch,omitempty"`
	Private bool        `json:"private,omitempty" yaml:"private,omitempty" toml:"private,omitempty"`

	// URL is the pinned archive location; archive installs only.
	URL string `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
}

// Service is one runnable configuration of the shared image. An empty
// entrypoint/command means the image's default long-running interactive
// process; a non-empty one makes the service a run-to-completion batch job.
type Service struct {
	Name       string            `json:"name" yaml:"name" toml:"name"`
	Mounts     []Mount           `json:"mounts,omitempty" yaml:"mounts,omitempty" toml:"mounts,omitempty"`
	Ports      []Port            `json:"ports,omitempty" yaml:"ports,omitempty" toml:"ports,omitempty"`
	Entrypoint []string          `json:"entrypoint,omitempty" yaml:"entrypoint,omitempty" toml:"entrypoint,omitempty"`
	Command    []string          `json:"command,omitempty" yaml:"command,omitempty" toml:"command,omitempty"`
	Env        map[string]string `json:"env,omitempty" yaml:"env,omitempty" toml:"env,omitempty"`
	GPU        bool              `json:"gpu,omitempty" yaml:"gpu,omitempty" toml:"gpu,omitempty"`
}

// Mount maps a host path into the container filesystem.
type Mount struct {
	Host   string `json:"host" yaml:"host" toml:"host"`
	Target string `json:"target" yaml:"target" toml:"target"`
}

// Port maps a host port to a container port.
type Port struct {
	Host      int `json:"host" yaml:"host" toml:"host"`
	Container int `json:"container" yaml:"container" toml:"container"`
}

// Interactive reports whether the service uses the image's default process
// instead of overriding entrypoint/command.
func (s Service) Interactive() bool {
	return len(s.Entrypoint) == 0 && len(s.Command) == 0
}

// Checkouts returns the checkout-kind installs in declaration order.
func (b BuildSpec) Checkouts() []PackageInstall {
	var out []PackageInstall
	for _, inst := range b.Installs {
		if inst.Kind == InstallCheckout {
			out = append(out, inst)
		}
	}
	return out
}

// Constructors

func NewProject(name string) *Project {
	return &Project{
		Name:     name,
		Services: make([]Service, 0),
	}
}

func (p *Project) AddService(service Service) {
	p.Services = append(p.Services, service)
}

// Service looks up a service by name.
func (p *Project) Service(name string) (Service, bool) {
	for _, svc := range p.Services {
		if svc.Name == name {
			return svc, true
		}
	}
	return Service{}, false
}

func NewService(name string) Service {
	return Service{
		Name:   name,
		Mounts: make([]Mount, 0),
		Ports:  make([]Port, 0),
		Env:    make(map[string]string),
	}
}
