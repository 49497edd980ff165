package mfa

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/client"

	"github.com/encryptabit/ams/internal/amserr"
)

// ContainerConfig configures a ContainerRunner.
type ContainerConfig struct {
	Image          string
	ContainerImage string
	Labels         map[string]string
}

const (
	defaultMFAImage = "mmcauliffe/montreal-forced-aligner:latest"
	mfaLabel        = "ams-mfa"
)

// ContainerRunner runs the forced aligner inside a short-lived Docker
// container, one per Align call, mounting the chapter's corpus directory
// as the container's working volume. Adapted from the teacher's
// internal/defra.DockerManager: here the container's lifecycle is a single
// run-to-completion rather than a long-lived started-once service, so
// Align plays the role of createAndStart+Wait+Remove combined.
type ContainerRunner struct {
	cli    *client.Client
	image  string
	labels map[string]string
}

// NewContainerRunner builds a ContainerRunner using the local Docker
// daemon (same client construction as the teacher's DockerManager), and
// prunes any leftover containers from a prior crashed run.
func NewContainerRunner(ctx context.Context, cfg ContainerConfig) (*ContainerRunner, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	img := cfg.Image
	if img == "" {
		img = defaultMFAImage
	}
	labels := map[string]string{mfaLabel: "true"}
	for k, v := range cfg.Labels {
		labels[k] = v
	}

	runner := &ContainerRunner{cli: cli, image: img, labels: labels}
	_ = runner.pruneStale(ctx)
	return runner, nil
}

// Close closes the Docker client.
func (r *ContainerRunner) Close() error {
	return r.cli.Close()
}

// Align mounts corpusDir at /corpus inside a fresh container running the
// aligner image, waits for it to exit, and removes it. Exit code 0 means
// {chapterID}.TextGrid was written into corpusDir by the container.
func (r *ContainerRunner) Align(ctx context.Context, corpusDir, chapterID string) error {
	if err := r.ensureImage(ctx); err != nil {
		return amserr.New(amserr.ExternalFatal, "failed to pull forced aligner image", err)
	}

	name := "ams-mfa-" + chapterID
	containerConfig := &container.Config{
		Image:  r.image,
		Cmd:    []string{"align_one", "/corpus", chapterID, "/corpus"},
		Labels: r.labels,
	}
	hostConfig := &container.HostConfig{
		Mounts: []mount.Mount{
			{Type: mount.TypeBind, Source: corpusDir, Target: "/corpus"},
		},
		AutoRemove: true,
	}

	resp, err := r.cli.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, name)
	if err != nil {
		return amserr.New(amserr.ExternalFatal, "failed to create forced aligner container", err)
	}

	if err := r.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = r.cli.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return amserr.New(amserr.ExternalFatal, "failed to start forced aligner container", err)
	}

	statusCh, errCh := r.cli.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			return amserr.New(amserr.ExternalTransient, "failed waiting for forced aligner container", err)
		}
	case status := <-statusCh:
		if status.StatusCode != 0 {
			if isTransientExit(int(status.StatusCode)) {
				return amserr.New(amserr.ExternalTransient, fmt.Sprintf("forced aligner container exited %d", status.StatusCode), nil)
			}
			return amserr.New(amserr.ExternalFatal, fmt.Sprintf("forced aligner container exited %d", status.StatusCode), nil)
		}
	case <-ctx.Done():
		_ = r.cli.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true})
		return amserr.New(amserr.Cancelled, "forced aligner container run cancelled", ctx.Err())
	}

	return nil
}

func (r *ContainerRunner) ensureImage(ctx context.Context) error {
	_, err := r.cli.ImageInspect(ctx, r.image)
	if err == nil {
		return nil
	}

	reader, err := r.cli.ImagePull(ctx, r.image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image: %w", err)
	}
	defer reader.Close()

	_, err = io.Copy(io.Discard, reader)
	return err
}

// pruneStale removes any leftover ams-mfa-labeled containers from a prior
// crashed run, consulted at process startup.
func (r *ContainerRunner) pruneStale(ctx context.Context) error {
	filterArgs := filters.NewArgs()
	for k := range r.labels {
		filterArgs.Add("label", k)
	}
	containers, err := r.cli.ContainerList(ctx, container.ListOptions{All: true, Filters: filterArgs})
	if err != nil {
		return err
	}
	for _, c := range containers {
		_ = r.cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: true})
	}
	return nil
}

var _ Aligner = (*ContainerRunner)(nil)
