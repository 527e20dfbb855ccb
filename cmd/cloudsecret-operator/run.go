package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/kubernetes"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/darkowlzz/cloudsecret-operator/action"
	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha1"
	"github.com/darkowlzz/cloudsecret-operator/api/v1alpha2"
	"github.com/darkowlzz/cloudsecret-operator/config"
	"github.com/darkowlzz/cloudsecret-operator/controller/cloudsecret"
	providerctrl "github.com/darkowlzz/cloudsecret-operator/controller/provider"
	"github.com/darkowlzz/cloudsecret-operator/convert"
	"github.com/darkowlzz/cloudsecret-operator/metrics"
	"github.com/darkowlzz/cloudsecret-operator/model"
	"github.com/darkowlzz/cloudsecret-operator/provider"
	"github.com/darkowlzz/cloudsecret-operator/provider/aws"
	"github.com/darkowlzz/cloudsecret-operator/runnable"
	"github.com/darkowlzz/cloudsecret-operator/scheduler"
	"github.com/darkowlzz/cloudsecret-operator/telemetry/export"
	cswebhook "github.com/darkowlzz/cloudsecret-operator/webhook/cloudsecret"
)

// livezPath is the liveness endpoint on the probe address.
const livezPath = "/livez"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the operator.",
	Long: `The run command starts the controller manager reconciling CloudSecrets and
CloudSecretProviders of the selected API version.`,
	Args: cobra.NoArgs,
	RunE: runRunCmd,
}

var (
	runArgs = config.Default()
	zapOpts = zap.Options{}
)

func init() {
	runArgs.BindFlags(runCmd.Flags())

	fs := flag.NewFlagSet(PROJECT, flag.ContinueOnError)
	zapOpts.BindFlags(fs)
	runCmd.Flags().AddGoFlagSet(fs)

	rootCmd.AddCommand(runCmd)
}

func newScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(v1alpha1.AddToScheme(scheme))
	utilruntime.Must(v1alpha2.AddToScheme(scheme))
	return scheme
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	if err := runArgs.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&zapOpts)))
	setupLog := ctrl.Log.WithName("setup")

	ctx := ctrl.SetupSignalHandler()

	telemetryShutdown, err := export.Install(ctx, runArgs.Tracing, PROJECT)
	if err != nil {
		return fmt.Errorf("unable to setup telemetry exporter: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetryShutdown(shutdownCtx); err != nil {
			setupLog.Error(err, "failed to flush traces")
		}
	}()

	metrics.RegisterDefault()

	adapter, err := convert.ForVersion(runArgs.APIVersion)
	if err != nil {
		return err
	}

	restConfig := ctrl.GetConfigOrDie()
	mgr, err := ctrl.NewManager(restConfig, ctrl.Options{
		Scheme:                 newScheme(),
		MetricsBindAddress:     runArgs.MetricsBindAddress,
		Port:                   runArgs.WebhookPort,
		HealthProbeBindAddress: runArgs.HealthProbeBindAddress,
		LivenessEndpointName:   livezPath,
		LeaderElection:         runArgs.LeaderElection,
		LeaderElectionID:       config.LeaderElectionID,
	})
	if err != nil {
		return fmt.Errorf("unable to start manager: %w", err)
	}
	if err := mgr.AddHealthzCheck("ping", healthz.Ping); err != nil {
		return fmt.Errorf("unable to set up health check: %w", err)
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return fmt.Errorf("unable to create clientset: %w", err)
	}

	// Provider resources and credentials are read without the cache so that
	// credential Secrets outside the watched set are reachable.
	awsBuilder := &aws.Builder{
		Kube:                 mgr.GetAPIReader(),
		Clientset:            clientset,
		CredentialsNamespace: runArgs.CredentialsNamespace,
	}
	factory := provider.NewFactory(mgr.GetAPIReader(), adapter,
		provider.WithBuilder(model.ProviderKindAWSSecretsManager, awsBuilder.Build),
		provider.WithAuthTTL(runArgs.ProviderAuthTTL),
		provider.WithTimeout(runArgs.ProviderTimeout),
		provider.WithLogger(ctrl.Log.WithName("provider-factory")),
	)

	sched := scheduler.New(
		scheduler.WithBackoffBase(runArgs.BackoffBase),
		scheduler.WithLogger(ctrl.Log.WithName("scheduler")),
	)
	if err := mgr.Add(runnable.NewGraceful(sched.Start, sched.Stop, runnable.WithLogger(ctrl.Log.WithName("scheduler-runnable")))); err != nil {
		return fmt.Errorf("unable to add scheduler: %w", err)
	}

	ctrlOpts := controller.Options{MaxConcurrentReconciles: runArgs.MaxConcurrentReconciles}

	if err := (&cloudsecret.Reconciler{
		Client:          mgr.GetClient(),
		Scheme:          mgr.GetScheme(),
		Adapter:         adapter,
		Providers:       factory,
		Actions:         action.New(action.WithLogger(ctrl.Log.WithName("actions"))),
		Scheduler:       sched,
		Recorder:        mgr.GetEventRecorderFor("cloudsecret-controller"),
		DefaultProvider: runArgs.DefaultProvider,
		ConflictRetries: runArgs.ConflictRetries,
		APITimeout:      runArgs.APITimeout,
		Log:             ctrl.Log.WithName("controllers").WithName("CloudSecret"),
	}).SetupWithManager(mgr, ctrlOpts); err != nil {
		return fmt.Errorf("unable to create controller CloudSecret: %w", err)
	}

	if err := (&providerctrl.Reconciler{
		Client:        mgr.GetClient(),
		Adapter:       adapter,
		Authenticator: factory,
		Recorder:      mgr.GetEventRecorderFor("cloudsecretprovider-controller"),
		Log:           ctrl.Log.WithName("controllers").WithName("CloudSecretProvider"),
	}).SetupWithManager(mgr, controller.Options{}); err != nil {
		return fmt.Errorf("unable to create controller CloudSecretProvider: %w", err)
	}

	if runArgs.EnableWebhooks {
		if err := cswebhook.Register(mgr.GetWebhookServer()); err != nil {
			return fmt.Errorf("unable to register webhooks: %w", err)
		}
	}

	setupLog.Info("starting manager", "version", VERSION, "apiVersion", adapter.Version())
	if err := mgr.Start(ctx); err != nil {
		return fmt.Errorf("problem running manager: %w", err)
	}
	return nil
}
