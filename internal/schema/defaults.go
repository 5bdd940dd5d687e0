package schema

// Host-specific data volume locations. Each maps to the same container
// target, /data, so the application code never sees the difference.
const (
	dataPathCPU  = "/var/lib/nnvision-data"
	dataPathGPU  = "/ssd/nnvision-data"
	dataPathNode = "/mnt/scratch/nnvision-data"
)

// DefaultProject returns the lab's stock environment: the nnvision image
// build with its six cloned and two archive-pinned packages, plus the
// notebook and production service variants.
func DefaultProject() *Project {
	p := NewProject("nnvision")

	p.Build = BuildSpec{
		BaseImage:    "sinzlab/pytorch:v3.8-torch1.7.0-cuda11.0",
		ImageTag:     "sinzlab/nnvision:latest",
		SourceDir:    ".",
		SourceTarget: "/src/nnvision",
		Installs: []PackageInstall{
			{Name: "neuralpredictors", Kind: InstallCheckout, Branch: "readout_position_regularizer"},
			{Name: "nnfabrik", Kind: InstallCheckout},
			{Name: "mei", Kind: InstallCheckout, Branch: "konsti_monkey_experiments"},
			{Name: "data_port", Kind: InstallCheckout, Private: true},
			// nndichromacy comes from the invoking user's fork, not the
			// canonical organization.
			{Name: "nndichromacy", Kind: InstallCheckout, Owner: OwnerUser, Private: true},
			{Name: "nexport", Kind: InstallCheckout, Private: true},
			{Name: "ptrnets", Kind: InstallArchive, URL: "https://github.com/sinzlab/ptrnets/archive/refs/heads/master.tar.gz"},
			{Name: "CORnet", Kind: InstallArchive, URL: "https://github.com/dicarlolab/CORnet/archive/refs/heads/master.tar.gz"},
		},
	}

	p.MountTargets = []string{
		"/src/nnvision",
		"/src/nndichromacy",
		"/notebooks",
		"/data",
		"/nexport",
	}

	jupyterPort := []Port{{Host: 8888, Container: 8888}}
	baseMounts := func(dataPath string) []Mount {
		return []Mount{
			{Host: ".", Target: "/src/nnvision"},
			{Host: "./notebooks", Target: "/notebooks"},
			{Host: dataPath, Target: "/data"},
		}
	}
	extraMounts := []Mount{
		{Host: "./nndichromacy", Target: "/src/nndichromacy"},
		{Host: "./nexport", Target: "/nexport"},
	}
	batchOverride := Service{
		Entrypoint: []string{"/usr/local/bin/python3"},
		Command:    []string{"/src/nnvision/run.py"},
	}

	p.AddService(Service{
		Name:   "notebook_server",
		Mounts: baseMounts(dataPathCPU),
		Ports:  jupyterPort,
	})
	p.AddService(Service{
		Name:   "notebook_server_gpu",
		Mounts: append(baseMounts(dataPathGPU), extraMounts...),
		Ports:  jupyterPort,
		GPU:    true,
	})
	p.AddService(Service{
		Name:   "notebook_server_2",
		Mounts: baseMounts(dataPathNode),
		Ports:  jupyterPort,
	})
	p.AddService(Service{
		Name:       "production_server",
		Mounts:     baseMounts(dataPathCPU),
		Ports:      jupyterPort,
		Entrypoint: batchOverride.Entrypoint,
		Command:    batchOverride.Command,
	})
	p.AddService(Service{
		Name:       "production_server_gpu",
		Mounts:     append(baseMounts(dataPathGPU), extraMounts...),
		Ports:      jupyterPort,
		Entrypoint: batchOverride.Entrypoint,
		Command:    batchOverride.Command,
		GPU:        true,
	})

	return p
}
