// Package bootstrap stands up a disposable Shuffle project against a live
// test network: it opens module publishing, creates a project and a home,
// provisions accounts, and deploys the project's package.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/shuffle/internal/account"
	"github.com/simonhull/shuffle/internal/compiler"
	"github.com/simonhull/shuffle/internal/errs"
	"github.com/simonhull/shuffle/internal/logger"
	"github.com/simonhull/shuffle/internal/network"
	"github.com/simonhull/shuffle/internal/project"
)

// Publisher submits a signed transaction through the REST API and waits
// for it to succeed.
type Publisher interface {
	SubmitAndWait(ctx context.Context, txn *network.SignedTransaction) error
}

// NetworkContext is the running network bootstrap operates on.
type NetworkContext struct {
	Client             network.Client
	RESTClient         Publisher
	TransactionFactory network.TransactionFactory
	RootAccount        *account.LocalAccount
	TreasuryAccount    *account.LocalAccount
	JSONRPCURL         string
	RESTURL            string
}

// Options configures a bootstrap run.
type Options struct {
	Compiler compiler.Compiler
	Logger   logger.Logger
	Out      io.Writer // Compiler output
	TempDir  string    // Parent of the work directory (default: os.TempDir)
}

// Handle describes a bootstrapped project. PublisherAddress is the latest
// account, which owns the deployed package's modules.
type Handle struct {
	ID               string
	WorkDir          string
	ProjectPath      string
	Home             project.Home
	PublisherAddress account.Address
	TestKeyPath      string
	TestAddress      account.Address
}

// Cleanup removes the work directory.
func (h *Handle) Cleanup() error {
	return os.RemoveAll(h.WorkDir)
}

// Account names used on chain.
const (
	LatestAccountName = "shuffle-latest"
	TestAccountName   = "shuffle-test"
)

// Bootstrap runs the bootstrap sequence. The steps are strictly ordered and
// nothing is rolled back on failure.
func Bootstrap(ctx context.Context, nc *NetworkContext, opts Options) (*Handle, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewSilentLogger()
	}
	id := uuid.New().String()
	log = log.WithFields(logger.F("bootstrap", id))

	log.Info("enabling open publishing")
	if err := EnableOpenPublishing(ctx, nc); err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp(opts.TempDir, "shuffle-"+id[:8]+"-")
	if err != nil {
		return nil, errs.New(errs.ErrIO, "work directory", err)
	}
	h := &Handle{
		ID:          id,
		WorkDir:     workDir,
		ProjectPath: filepath.Join(workDir, "project"),
		Home:        project.NewHome(filepath.Join(workDir, "home")),
	}

	log.Info("creating project", logger.F("path", h.ProjectPath))
	if err := project.NewScaffolder(nil).Scaffold(ctx, h.ProjectPath, project.ScaffoldOptions{}); err != nil {
		return nil, errs.New(errs.ErrIO, h.ProjectPath, err)
	}

	log.Info("creating accounts")
	latest, test, err := CreateAccounts(ctx, nc, h.Home)
	if err != nil {
		return nil, err
	}
	h.PublisherAddress = latest.Address
	h.TestKeyPath = h.Home.TestKeyPath()
	h.TestAddress = test.Address

	log.Info("deploying project", logger.F("sender", latest.Address.Hex()))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return Deploy(gctx, nc, opts.Compiler, h.ProjectPath, latest, opts.Out)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info("bootstrap complete", logger.F("project", h.ProjectPath))
	return h, nil
}

// EnableOpenPublishing lets any account publish modules. The root account
// signs it.
func EnableOpenPublishing(ctx context.Context, nc *NetworkContext) error {
	txn, err := nc.TransactionFactory.EnableOpenPublishing(nc.RootAccount)
	if err != nil {
		return errs.New(errs.ErrNetworkPolicy, "open publishing", err)
	}
	if err := network.Send(ctx, nc.Client, txn); err != nil {
		return errs.New(errs.ErrNetworkPolicy, "open publishing", err)
	}
	return nil
}

// CreateAccounts generates the latest and test keys in home and creates
// both accounts on chain from the treasury account. The treasury must hold
// a non-zero balance.
func CreateAccounts(ctx context.Context, nc *NetworkContext, home project.Home) (latest, test *account.LocalAccount, err error) {
	tc := nc.TreasuryAccount
	view, err := nc.Client.GetAccount(ctx, tc.Address)
	if err != nil {
		return nil, nil, errs.New(errs.ErrDeployment, "treasury account", err)
	}
	if view.TotalBalance() == 0 {
		return nil, nil, errs.Newf(errs.ErrDeployment, "treasury account", "insufficient funds: %s has a zero balance", tc.Address.Hex())
	}
	tc.SequenceNumber = view.SequenceNumber

	latest, err = createAccount(ctx, nc, home, project.LatestAccount, LatestAccountName)
	if err != nil {
		return nil, nil, err
	}
	test, err = createAccount(ctx, nc, home, project.TestAccount, TestAccountName)
	if err != nil {
		return nil, nil, err
	}
	return latest, test, nil
}

func createAccount(ctx context.Context, nc *NetworkContext, home project.Home, role project.AccountRole, name string) (*account.LocalAccount, error) {
	acct, err := home.GenerateKey(role)
	if err != nil {
		return nil, errs.New(errs.ErrIO, string(role)+" key", err)
	}
	txn, err := nc.TransactionFactory.CreateParentVASPAccount(nc.TreasuryAccount, acct.AuthKey(), name)
	if err != nil {
		return nil, errs.New(errs.ErrDeployment, name, err)
	}
	if err := network.Send(ctx, nc.Client, txn); err != nil {
		return nil, errs.New(errs.ErrDeployment, name, err)
	}
	return acct, nil
}

// Deploy builds the project at root with its Sender address bound to
// sender and publishes every compiled module from sender.
func Deploy(ctx context.Context, nc *NetworkContext, c compiler.Compiler, root string, sender *account.LocalAccount, out io.Writer) error {
	pkgDir := project.MainPackagePath(root)
	if err := compiler.SetDevAddress(pkgDir, "Sender", sender.Address.Hex()); err != nil {
		return errs.New(errs.ErrDeployment, pkgDir, err)
	}

	pkg, err := compiler.Build(ctx, c, root, out)
	if err != nil {
		return errs.New(errs.ErrDeployment, pkgDir, err)
	}
	if len(pkg.Modules) == 0 {
		return errs.Newf(errs.ErrDeployment, pkg.Name, "package has no modules")
	}

	view, err := nc.Client.GetAccount(ctx, sender.Address)
	if err != nil {
		return errs.New(errs.ErrDeployment, sender.Address.Hex(), err)
	}
	sender.SequenceNumber = view.SequenceNumber

	for _, m := range pkg.Modules {
		txn, err := nc.TransactionFactory.PublishModule(sender, m.Bytecode)
		if err != nil {
			return errs.New(errs.ErrDeployment, m.Name, err)
		}
		if err := nc.RESTClient.SubmitAndWait(ctx, txn); err != nil {
			return errs.New(errs.ErrDeployment, fmt.Sprintf("module %s", m.Name), err)
		}
	}
	return nil
}
